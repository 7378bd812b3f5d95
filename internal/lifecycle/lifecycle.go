// Package lifecycle runs the two halves of an image cache run: Load in the
// pre phase of a pipeline and Save in the post phase. The halves run in
// separate processes and only share the pipeline state store and the cache
// service.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/imgcache/internal/actions"
	"github.com/MrSnakeDoc/imgcache/internal/cache"
	"github.com/MrSnakeDoc/imgcache/internal/docker"
	"github.com/MrSnakeDoc/imgcache/internal/errs"
	"github.com/MrSnakeDoc/imgcache/internal/inventory"
	"github.com/MrSnakeDoc/imgcache/internal/logger"
)

type RunState struct {
	CacheHit bool
	ReadOnly bool
	Key      string
}

type Manager struct {
	Pipeline    actions.Pipeline
	Cache       cache.Service
	Runtime     docker.Runtime
	ArchivePath string
}

func New(p actions.Pipeline, c cache.Service, rt docker.Runtime, archivePath string) *Manager {
	return &Manager{Pipeline: p, Cache: c, Runtime: rt, ArchivePath: archivePath}
}

// Load restores the archive for the key input. On an exact hit the archive
// is loaded into the runtime; otherwise the current image list is recorded
// as the baseline for Save. Errors returned are fatal.
func (m *Manager) Load(ctx context.Context) error {
	key, err := m.Pipeline.GetInput(actions.InputKey, &actions.InputOptions{Required: true})
	if err != nil {
		return errs.NewFatal("load", err)
	}

	restored, err := m.Cache.Restore(ctx, []string{m.ArchivePath}, key, nil, nil)
	if err != nil {
		return errs.NewFatal("restore cache", err)
	}
	// A restore-key match is still a miss: only the exact key is a hit.
	cacheHit := restored == key

	m.Pipeline.Notice("load: cacheHit=%t", cacheHit)
	if err := m.Pipeline.SetOutput(actions.StateCacheHit, actions.FormatBool(cacheHit)); err != nil {
		return errs.NewFatal("set output", err)
	}
	if err := m.Pipeline.SaveState(actions.StateCacheHit, actions.FormatBool(cacheHit)); err != nil {
		return errs.NewFatal("save state", err)
	}

	if cacheHit {
		logger.Info("Cache hit for key: %s, loading Docker images from cache.", restored)
		if err := m.Runtime.LoadArchive(ctx, m.ArchivePath); err != nil {
			logger.Debug("docker load failed: %v", err)
		}
		return nil
	}

	logger.Info("Cache miss for key: %s", key)
	images, err := m.Runtime.ListImages(ctx)
	if err != nil {
		return errs.NewFatal("list images", err)
	}
	m.Pipeline.Notice("Found %d Docker images.", len(images))

	snapshot, err := inventory.Encode(images)
	if err != nil {
		return errs.NewFatal("encode image list", err)
	}
	if err := m.Pipeline.SaveState(actions.StateImagesList, snapshot); err != nil {
		return errs.NewFatal("save state", err)
	}
	return nil
}

// Save archives and uploads the images that appeared since Load. It never
// returns an error: every failure is reported through the fail signal.
func (m *Manager) Save(ctx context.Context) error {
	if err := m.persist(ctx); err != nil {
		m.Pipeline.SetFailed(err)
	}
	return nil
}

func (m *Manager) readRunState() (RunState, error) {
	key, err := m.Pipeline.GetInput(actions.InputKey, &actions.InputOptions{Required: true})
	if err != nil {
		return RunState{}, err
	}
	readOnly, err := m.Pipeline.GetInput(actions.InputReadOnly, nil)
	if err != nil {
		return RunState{}, err
	}
	return RunState{
		CacheHit: actions.ParseBool(m.Pipeline.GetState(actions.StateCacheHit)),
		ReadOnly: actions.ParseBool(readOnly),
		Key:      key,
	}, nil
}

func (m *Manager) persist(ctx context.Context) error {
	st, err := m.readRunState()
	if err != nil {
		return errs.NewRecoverable("save", err)
	}
	m.Pipeline.Notice("save: cacheHit=%t, readOnly=%t, key=%s", st.CacheHit, st.ReadOnly, st.Key)

	skip, err := m.shouldSkip(ctx, st)
	if err != nil || skip {
		return err
	}

	newImages, err := m.NewImages(ctx)
	if err != nil {
		return err
	}
	if len(newImages) == 0 {
		m.Pipeline.Notice("No new Docker images to save for key: %s.", st.Key)
		return nil
	}
	inventory.RenderTable(fmt.Sprintf("Saving %d new Docker images:", len(newImages)), newImages)

	if err := m.archiveAndUpload(ctx, st.Key, newImages); err != nil {
		if errors.Is(err, docker.ErrCommandFailed) {
			// already reported by the shell wrapper
			return nil
		}
		return errs.NewRecoverable("save images", fmt.Errorf("%s: %w", errs.Msg(errs.SaveImagesFailed), err))
	}
	return nil
}

// shouldSkip applies the skip rules in order: hit, read-only, key already
// published. The lookup is check-then-act; a concurrent run may still save
// the same key between the probe and the upload.
func (m *Manager) shouldSkip(ctx context.Context, st RunState) (bool, error) {
	switch {
	case st.CacheHit:
		logger.Info("Cache hit occurred for key: %s, skipping save.", st.Key)
		return true, nil
	case st.ReadOnly:
		logger.Info("Cache miss and read-only mode is enabled for key: %s, skipping save.", st.Key)
		return true, nil
	}

	found, err := m.Cache.Restore(ctx, []string{m.ArchivePath}, st.Key, nil, &cache.Options{LookupOnly: true})
	if err != nil {
		return true, errs.NewRecoverable("lookup cache", err)
	}
	if found == st.Key {
		logger.Info("Cache already exists for key: %s, skipping save.", st.Key)
		return true, nil
	}
	return false, nil
}

// NewImages diffs the runtime's current images against the baseline stored
// by Load. A missing or broken baseline counts as empty.
func (m *Manager) NewImages(ctx context.Context) ([]inventory.Image, error) {
	baseline := inventory.DecodeOrEmpty(m.Pipeline.GetState(actions.StateImagesList))
	current, err := m.Runtime.ListImages(ctx)
	if err != nil {
		return nil, errs.NewRecoverable("list images", err)
	}
	return inventory.Diff(baseline, current), nil
}

// Prune removes the images that appeared since Load so that a local rerun
// starts from the same baseline. Removal failures are reported by the shell
// wrapper and not counted.
func (m *Manager) Prune(ctx context.Context) (int, error) {
	newImages, err := m.NewImages(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, img := range newImages {
		if err := m.Runtime.RemoveImage(ctx, img.Label()); err != nil {
			continue
		}
		removed++
	}
	return removed, nil
}

func (m *Manager) archiveAndUpload(ctx context.Context, key string, images []inventory.Image) error {
	if err := m.Runtime.SaveArchive(ctx, inventory.Labels(images), m.ArchivePath); err != nil {
		return err
	}
	size, err := m.Cache.Save(ctx, []string{m.ArchivePath}, key, nil)
	if err != nil {
		return err
	}
	logger.Success("Saved %d Docker images to cache key %s (%d bytes).", len(images), key, size)
	return nil
}
