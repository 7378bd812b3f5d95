package inventory

import (
	"strings"

	"github.com/MrSnakeDoc/imgcache/internal/logger"
)

func shortID(id string) string {
	id = strings.TrimPrefix(id, "sha256:")
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// RenderTable prints images as an ID / tags / label table.
func RenderTable(title string, images []Image) {
	if title != "" {
		logger.Info("%s", title)
	}

	table := logger.CreateTable([]string{"Image ID", "Tags", "Label"})
	for _, img := range images {
		tags := strings.Join(img.RepoTags, ", ")
		if tags == "" {
			tags = "<none>"
		}
		if err := table.Append([]string{shortID(img.ID), tags, img.Label()}); err != nil {
			logger.LogError("Error appending to table: %v", err)
			return
		}
	}

	if err := table.Render(); err != nil {
		logger.LogError("Error rendering table: %v", err)
	}
}
