package main

import (
	"database/sql"
	"net/http"
	"os"
	"path/filepath"

	"github.com/KenLuoph/Gemini-Hackathon/internal/api"
	"github.com/KenLuoph/Gemini-Hackathon/internal/config"
	"github.com/KenLuoph/Gemini-Hackathon/internal/history"
	"github.com/KenLuoph/Gemini-Hackathon/internal/session"
	"github.com/KenLuoph/Gemini-Hackathon/internal/stream"
)

func openDB() (*sql.DB, string, func(), error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", func() {}, err
	}
	scoutDir := filepath.Join(workDir, ".tripscout")
	if err := os.MkdirAll(scoutDir, 0o755); err != nil {
		return nil, "", func() {}, err
	}
	dbPath := filepath.Join(scoutDir, "history.db")
	storeDB, err := history.Open(dbPath)
	if err != nil {
		return nil, "", func() {}, err
	}
	return storeDB, workDir, func() { _ = storeDB.Close() }, nil
}

func historyStore(db *sql.DB) *history.Store {
	if db == nil {
		return nil
	}
	return history.NewStore(db)
}

func buildClient(cfg config.Config) *api.Client {
	return api.NewClient(api.Config{
		BaseURL: cfg.BaseURL,
		Prefix:  cfg.APIPrefix,
		Timeout: cfg.RequestTimeout(),
	}, http.DefaultClient)
}

// buildSession wires the REST client, the alert channel and the local
// history store into one observable session. The returned channel must be
// disposed by the caller when it is no longer needed.
func buildSession(cfg config.Config, store *history.Store) (*session.Session, *stream.Channel) {
	client := buildClient(cfg)
	channel := stream.NewChannel(stream.Config{
		BaseURL:        cfg.WebSocketBase(),
		ReconnectDelay: cfg.ReconnectDelay(),
	})
	var recorder session.Recorder
	if store != nil {
		recorder = store
	}
	sess := session.New(client, channel, session.Options{
		UserID:   cfg.UserID,
		Recorder: recorder,
	})
	return sess, channel
}
