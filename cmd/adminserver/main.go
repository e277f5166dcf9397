package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"

	"github.com/yourusername/adminserver/internal/api"
	"github.com/yourusername/adminserver/internal/app"
)

func main() {
	var cfgFile *string = flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()
	if *cfgFile != "" {
		viper.SetConfigFile(*cfgFile)
	}

	/* ---------- core ---------- */
	a := &app.App{}
	if err := a.Init(); err != nil {
		log.Fatalf("init: %v", err)
	}

	/* ---------- HTTP layer ---------- */
	router := api.SetupRouter(a)
	a.SetWebRouter(router)

	addr := fmt.Sprintf("%s:%d", a.GetConfig().WebHost, a.GetConfig().WebPort)
	go func() {
		log.Printf("Server is running on %s", addr)
		if err := router.Run(addr); err != nil {
			log.Fatalf("http: %v", err)
		}
	}()

	/* ---------- graceful shutdown ---------- */
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutdown")

	_ = a.Close()
}
