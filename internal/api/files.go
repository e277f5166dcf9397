package api

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/adminserver/internal/app"
	"github.com/yourusername/adminserver/internal/tabular"
)

type ExportRequest struct {
	Data   []tabular.Record `json:"data"`
	Format string           `json:"format"`
}

// handleUploadFile accepts one multipart file, parses it into records and
// removes the temporary upload on every exit path.
func handleUploadFile(a *app.App, c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(400, gin.H{"error": "No file uploaded."})
		return
	}

	dst := filepath.Join(a.GetConfig().UploadDir,
		fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(500, gin.H{"error": "Error uploading file"})
		return
	}
	defer func() {
		if err := os.Remove(dst); err != nil {
			log.Printf("failed to delete upload %s: %v", dst, err)
		}
	}()

	records, err := tabular.Import(dst)
	if err != nil {
		if errors.Is(err, tabular.ErrUnsupportedFormat) {
			c.JSON(400, gin.H{"error": "Invalid file format. Only CSV and Excel files are supported."})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to process file"})
		return
	}

	kind := "Excel"
	if strings.EqualFold(filepath.Ext(file.Filename), ".csv") {
		kind = "CSV"
	}
	c.JSON(200, gin.H{
		"message": fmt.Sprintf("%s file uploaded and processed successfully", kind),
		"data":    records,
	})
}

// handleExportData serializes posted records to the requested format and
// streams the file back, removing it after the response completes.
func handleExportData(a *app.App, c *gin.Context) {
	var in ExportRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request"})
		return
	}
	if len(in.Data) == 0 || in.Format == "" {
		c.JSON(400, gin.H{"error": "Data and format are required."})
		return
	}

	format := strings.ToLower(in.Format)
	switch format {
	case "csv", "xls", "xlsx":
	default:
		c.JSON(400, gin.H{"error": "Invalid format. Only CSV and Excel formats are supported."})
		return
	}

	filename := fmt.Sprintf("export-%d.%s", time.Now().UnixMilli(), format)
	path := filepath.Join(a.GetConfig().ExportDir, filename)

	var writeErr error
	if format == "csv" {
		writeErr = tabular.WriteCSV(path, in.Data)
	} else {
		writeErr = tabular.WriteExcel(path, in.Data)
	}
	if writeErr != nil {
		c.JSON(500, gin.H{"error": "Failed to export file."})
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			log.Printf("failed to delete export %s: %v", path, err)
		}
	}()

	c.FileAttachment(path, filename)
}
