package main

import (
	"log"
	"net/http"
	"os"

	"taskodo/internal/config"
	"taskodo/internal/serverapp"
	"taskodo/internal/task"
)

func main() {
	path := config.DefaultPath
	if p := os.Getenv("TASKODO_CONFIG"); p != "" {
		path = p
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	config.ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	st := cfg.Storage
	repo, closeRepo, err := task.Open(st.Driver, st.DataDir, st.SQLitePath)
	if err != nil {
		log.Fatalf("open %s store: %v", st.Driver, err)
	}
	defer closeRepo()

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config:        cfg,
		Repo:          repo,
		StaticDir:     "static",
		UseDiskStatic: serverapp.UseDiskStaticByEnv(),
		Logger:        log.Default(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	log.Printf("taskodo listening on http://localhost%s (storage=%s)", cfg.Server.Addr, st.Driver)
	if err := http.ListenAndServe(cfg.Server.Addr, handler); err != nil {
		log.Printf("server: %v", err)
	}
}
