// ABOUTME: Top-level publish orchestrator for one document-to-post binding.
// ABOUTME: Ensures a draft id exists, reconciles media, pushes content, persists echo.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/draftsmith/wpbridge/internal/document"
	"github.com/draftsmith/wpbridge/internal/media"
	"github.com/draftsmith/wpbridge/internal/models"
	"github.com/draftsmith/wpbridge/internal/wordpress"
)

// API is the remote surface the orchestrator drives. *wordpress.Client
// implements it.
type API interface {
	CreateDraft(ctx context.Context, payload wordpress.PostPayload) (*wordpress.Post, int, error)
	UpdatePost(ctx context.Context, id int, payload wordpress.PostPayload) (*wordpress.Post, int, error)
	media.Lister
	media.Uploader
}

// MetadataStore persists the post metadata binding across runs.
type MetadataStore interface {
	Load() (*models.Metadata, error)
	Save(*models.Metadata) error
}

const (
	draftTitle   = "Untitled draft"
	draftContent = "Pending first publish."
)

// Orchestrator runs one publish invocation: a single logical thread of control,
// every network operation a blocking round trip in strict sequence.
type Orchestrator struct {
	api   API
	store MetadataStore
	file  string
	log   zerolog.Logger
}

// New creates an orchestrator for the given source file.
func New(api API, store MetadataStore, file string, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		api:   api,
		store: store,
		file:  file,
		log:   log,
	}
}

// Publish runs the full pipeline and returns the HTTP status code of the last
// network operation attempted. A post id, once assigned, is persisted before
// any further network call; server-echoed metadata is persisted only after a
// confirmed 2xx update.
func (o *Orchestrator) Publish(ctx context.Context) (int, error) {
	log := o.log.With().Str("run_id", uuid.NewString()).Logger()

	meta, err := o.store.Load()
	if err != nil {
		return 0, fmt.Errorf("failed to load post metadata: %w", err)
	}

	status := 0
	if meta.ID == nil {
		status, err = o.createDraft(ctx, meta, log)
		if err != nil {
			return status, err
		}
	} else {
		log.Debug().Int("post_id", *meta.ID).Msg("post id already bound, skipping draft creation")
	}

	raw, err := os.ReadFile(o.file)
	if err != nil {
		return status, fmt.Errorf("failed to read document %s: %w", o.file, err)
	}

	doc, err := document.Parse(raw)
	if err != nil {
		return status, newError(KindConversion, err)
	}
	log.Debug().Str("title", doc.Title).Int("images", len(doc.Images())).Msg("document parsed")

	replacements, listStatus, err := media.BuildMap(ctx, o.api, *meta.ID, doc.Images())
	if listStatus > 0 {
		status = listStatus
	}
	if err != nil {
		return status, newError(KindMediaList, err)
	}

	uploadStatus, err := media.UploadMissing(ctx, o.api, replacements, filepath.Dir(o.file))
	if uploadStatus > 0 {
		status = uploadStatus
	}
	if err != nil {
		return status, newError(KindUpload, err)
	}

	doc.RewriteImages(replacements.Rewrites())
	body, err := doc.Render()
	if err != nil {
		return status, newError(KindConversion, err)
	}

	payload := wordpress.PostPayload{
		Date:          time.Now().Format(time.RFC3339),
		Title:         doc.Title,
		Content:       body,
		Status:        meta.Status,
		Author:        meta.Author,
		CommentStatus: meta.CommentStatus,
		PingStatus:    meta.PingStatus,
		Format:        meta.Format,
		Categories:    meta.Categories,
		Tags:          meta.Tags,
	}

	post, updateStatus, err := o.api.UpdatePost(ctx, *meta.ID, payload)
	if updateStatus > 0 {
		status = updateStatus
	}
	if err != nil {
		// Metadata stays exactly as loaded; a retry on the next run is safe
		// because the post id is already durable.
		return status, newError(KindUpdate, err)
	}

	applyEcho(meta, post)
	if err := o.store.Save(meta); err != nil {
		return status, fmt.Errorf("failed to persist post metadata: %w", err)
	}

	log.Info().Int("post_id", *meta.ID).Int("status", status).Str("link", post.GUID.Rendered).Msg("published")
	return status, nil
}

// createDraft submits a minimal draft to obtain a durable post id and persists
// it immediately, before any further network call.
func (o *Orchestrator) createDraft(ctx context.Context, meta *models.Metadata, log zerolog.Logger) (int, error) {
	payload := wordpress.PostPayload{
		Title:         draftTitle,
		Content:       draftContent,
		Status:        "draft",
		Author:        meta.Author,
		CommentStatus: meta.CommentStatus,
		PingStatus:    meta.PingStatus,
		Format:        meta.Format,
	}

	post, status, err := o.api.CreateDraft(ctx, payload)
	if err != nil {
		return status, newError(KindDraftCreation, err)
	}
	if post.ID == 0 {
		return status, newError(KindDraftCreation, fmt.Errorf("create response missing post id"))
	}

	meta.ID = &post.ID
	if err := o.store.Save(meta); err != nil {
		return status, fmt.Errorf("failed to persist post id %d: %w", post.ID, err)
	}
	log.Info().Int("post_id", post.ID).Msg("draft created and id persisted")
	return status, nil
}

// applyEcho copies the server-echoed fields of a confirmed update into the
// metadata binding.
func applyEcho(meta *models.Metadata, post *wordpress.Post) {
	meta.Slug = post.Slug
	meta.Excerpt = post.Excerpt.Rendered
	meta.FeaturedMedia = post.FeaturedMedia
	meta.Sticky = post.Sticky
	meta.Categories = post.Categories
	meta.Tags = post.Tags
}
