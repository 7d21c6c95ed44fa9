package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"relayout/internal/registry"
)

func cmdModels() {
	cfg := loadConfig()

	reg, err := registry.Open(cfg.Registry.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening registry: %v\n", err)
		os.Exit(1)
	}
	defer reg.Close()

	artifacts, err := reg.List("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing artifacts: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		type artifactInfo struct {
			ID        int64  `json:"id"`
			Kind      string `json:"kind"`
			Lang      string `json:"lang"`
			Version   int    `json:"version"`
			Path      string `json:"path"`
			Checksum  string `json:"checksum"`
			SizeBytes int64  `json:"size_bytes"`
			ItemCount int64  `json:"item_count"`
			CreatedAt string `json:"created_at"`
		}
		infos := make([]artifactInfo, 0, len(artifacts))
		for _, a := range artifacts {
			infos = append(infos, artifactInfo{
				ID:        a.ID,
				Kind:      a.Kind,
				Lang:      a.Lang,
				Version:   a.Version,
				Path:      a.Path,
				Checksum:  hex.EncodeToString(a.Checksum[:]),
				SizeBytes: a.SizeBytes,
				ItemCount: a.ItemCount,
				CreatedAt: time.Unix(a.CreatedAt, 0).UTC().Format(time.RFC3339),
			})
		}
		printJSON(infos)
		return
	}

	if len(artifacts) == 0 {
		fmt.Println("No artifacts recorded.")
		return
	}

	fmt.Printf("%-4s %-14s %-5s %-4s %-10s %-20s %s\n",
		"ID", "Kind", "Lang", "Ver", "Items", "Created", "Path")
	fmt.Println(strings.Repeat("-", 90))
	for _, a := range artifacts {
		created := time.Unix(a.CreatedAt, 0).UTC().Format("2006-01-02 15:04")
		fmt.Printf("%-4d %-14s %-5s %-4d %-10d %-20s %s\n",
			a.ID, a.Kind, a.Lang, a.Version, a.ItemCount, created, a.Path)
	}
}
