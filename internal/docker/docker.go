package docker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/imgcache/internal/inventory"
	"github.com/MrSnakeDoc/imgcache/internal/runner"
	"github.com/MrSnakeDoc/imgcache/internal/utils"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// ErrCommandFailed means the shell wrapper already reported the failure.
var ErrCommandFailed = errors.New("docker command failed")

// Runtime is the local container daemon.
type Runtime interface {
	ListImages(ctx context.Context) ([]inventory.Image, error)
	LoadArchive(ctx context.Context, path string) error
	SaveArchive(ctx context.Context, labels []string, path string) error
	RemoveImage(ctx context.Context, label string) error
}

// ImageLister is the part of the engine API client used for listing.
type ImageLister interface {
	ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error)
}

// Client lists images through the engine API and drives load, save and
// remove through the docker CLI.
type Client struct {
	API   ImageLister
	Shell *runner.Shell
}

func NewClient(sh *runner.Shell) (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Client{API: cli, Shell: sh}, nil
}

func (c *Client) ListImages(ctx context.Context) ([]inventory.Image, error) {
	summaries, err := c.API.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list docker images: %w", err)
	}
	return utils.Map(summaries, func(s image.Summary) inventory.Image {
		return inventory.Image{ID: s.ID, RepoTags: s.RepoTags}
	}), nil
}

func (c *Client) LoadArchive(ctx context.Context, path string) error {
	return c.exec(ctx, "docker load -i "+runner.Quote(path))
}

func (c *Client) SaveArchive(ctx context.Context, labels []string, path string) error {
	if len(labels) == 0 {
		return fmt.Errorf("no images to save")
	}
	quoted := utils.Map(labels, runner.Quote)
	return c.exec(ctx, fmt.Sprintf("docker save -o %s %s", runner.Quote(path), strings.Join(quoted, " ")))
}

func (c *Client) RemoveImage(ctx context.Context, label string) error {
	return c.exec(ctx, "docker rmi "+runner.Quote(label))
}

func (c *Client) exec(ctx context.Context, command string) error {
	if _, ok := c.Shell.Exec(ctx, command); !ok {
		return ErrCommandFailed
	}
	return nil
}
