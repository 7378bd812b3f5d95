package inventory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/imgcache/internal/logger"
	"github.com/MrSnakeDoc/imgcache/internal/utils"
)

// Image is one entry of the runtime's image list. Only ID takes part in
// diffing.
type Image struct {
	ID       string   `json:"Id"`
	RepoTags []string `json:"RepoTags"`
}

// Label is the reference passed to "docker save": the first tag, or the ID
// for dangling images.
func (i Image) Label() string {
	for _, tag := range i.RepoTags {
		if tag != "" && tag != "<none>:<none>" {
			return tag
		}
	}
	return i.ID
}

func Labels(images []Image) []string {
	return utils.Map(images, Image.Label)
}

// Diff returns the images of current whose ID is not in baseline, in the
// order of current.
func Diff(baseline, current []Image) []Image {
	seen := make(map[string]struct{}, len(baseline))
	for _, img := range baseline {
		seen[img.ID] = struct{}{}
	}
	return utils.Filter(current, func(img Image) bool {
		_, ok := seen[img.ID]
		return !ok
	})
}

func Encode(images []Image) (string, error) {
	if images == nil {
		images = []Image{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("failed to encode image list: %w", err)
	}
	return string(data), nil
}

func Decode(raw string) ([]Image, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty image list")
	}
	var images []Image
	if err := json.Unmarshal([]byte(raw), &images); err != nil {
		return nil, fmt.Errorf("failed to decode image list: %w", err)
	}
	return images, nil
}

// DecodeOrEmpty treats an absent or unparseable snapshot as an empty baseline.
func DecodeOrEmpty(raw string) []Image {
	images, err := Decode(raw)
	if err != nil {
		logger.Warn("no usable baseline image list, treating it as empty: %v", err)
		return []Image{}
	}
	return images
}
