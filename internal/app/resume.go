package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

const resumeURLExpiry = 15 * time.Minute

// SaveResume stores the actor's resume in object storage and records
// the key on the user. Re-uploading replaces the previous resume.
func (a *App) SaveResume(ctx context.Context, actorID, filename string, r io.Reader, size int64, contentType string) error {
	if a.resumes == nil {
		return ErrResumeStorageUnavailable
	}
	ext := strings.ToLower(filepath.Ext(filename))
	key := "resumes/" + actorID + ext
	if err := a.resumes.Put(ctx, key, r, size, contentType); err != nil {
		return fmt.Errorf("store resume: %w", err)
	}
	if user, ok, err := a.store.GetUserByID(actorID); err == nil && ok && user.ResumeKey != "" && user.ResumeKey != key {
		_ = a.resumes.Delete(ctx, user.ResumeKey)
	}
	if err := a.store.SetUserResume(actorID, key); err != nil {
		return fmt.Errorf("record resume key: %w", err)
	}
	return nil
}

// ResumeURL returns a pre-signed download URL for the actor's resume.
func (a *App) ResumeURL(ctx context.Context, actorID string) (string, error) {
	if a.resumes == nil {
		return "", ErrResumeStorageUnavailable
	}
	user, ok, err := a.store.GetUserByID(actorID)
	if err != nil {
		return "", fmt.Errorf("fetch user: %w", err)
	}
	if !ok || user.ResumeKey == "" {
		return "", ErrResumeNotFound
	}
	url, err := a.resumes.PresignGet(ctx, user.ResumeKey, resumeURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign resume: %w", err)
	}
	return url, nil
}
