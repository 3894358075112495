package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/minzhangphoto/portfolio/pkg/models"
	"github.com/rfberaldo/sqlz"
)

var ErrPreviewNotFound = errors.New("preview not found")

type PreviewServicer interface {
	Exists(key string) (bool, error)
	Get(key string) (*models.Preview, error)
	Save(preview models.Preview) error
}

type PreviewServiceConfig struct {
	DB *sqlz.DB
}

type PreviewService struct {
	db *sqlz.DB
}

func NewPreviewService(config PreviewServiceConfig) PreviewService {
	return PreviewService{
		db: config.DB,
	}
}

// PreviewKey derives the storage key for a resolved image URL.
func PreviewKey(sourceURL string) string {
	sum := sha256.Sum256([]byte(sourceURL))
	return hex.EncodeToString(sum[:16])
}

/*
PreviewSources maps preview keys to the resolved URLs of every project's
list-row preview images. Empty images are skipped.
*/
func PreviewSources(projects []models.Project, resolver ImageURLResolver) map[string]string {
	result := map[string]string{}

	for _, p := range projects {
		for _, image := range p.PreviewImages {
			if u := resolver.ResolveImage(image); u != "" {
				result[PreviewKey(u)] = u
			}
		}
	}

	return result
}

func (s PreviewService) Exists(key string) (bool, error) {
	var (
		err   error
		count int
	)

	sql := `
SELECT
	COUNT(1)
FROM previews
WHERE 1=1
	AND key=?
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, &count, sql, key); err != nil {
		return false, fmt.Errorf("error checking for preview %s: %w", key, err)
	}

	return count > 0, nil
}

func (s PreviewService) Get(key string) (*models.Preview, error) {
	var (
		err error
	)

	result := &models.Preview{}

	sql := `
SELECT
	key
	, source_url
	, width
	, height
	, data
	, updated_at
FROM previews
WHERE 1=1
	AND key=?
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, result, sql, key); err != nil {
		if sqlz.IsNotFound(err) {
			return result, ErrPreviewNotFound
		}

		return result, fmt.Errorf("error querying for preview %s: %w", key, err)
	}

	return result, nil
}

func (s PreviewService) Save(preview models.Preview) error {
	var (
		err error
	)

	if preview.UpdatedAt == 0 {
		preview.UpdatedAt = time.Now().Unix()
	}

	sql := `
INSERT INTO previews (
	key,
	source_url,
	width,
	height,
	data,
	updated_at
) VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
	source_url=excluded.source_url,
	width=excluded.width,
	height=excluded.height,
	data=excluded.data,
	updated_at=excluded.updated_at
`

	params := []any{
		preview.Key,
		preview.SourceURL,
		preview.Width,
		preview.Height,
		preview.Data,
		preview.UpdatedAt,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return fmt.Errorf("error saving preview %s: %w", preview.Key, err)
	}

	return nil
}
