// reader serves essays with full-text search and shareable anchors.
//
// @title        Essay Reader API
// @version      1.0
// @description  Search, section reading and share-link anchors for the essay reader.
// @BasePath     /api/v1
package main

import (
	"os"

	"github.com/tbourn/go-reader-backend/cmd/reader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
