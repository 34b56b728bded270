// Package media provides image processing for encounter evidence photos.
package media

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
)

// EvidenceProcessor stores evidence photos attached to encounters.
// Originals are kept untouched for evidentiary value; thumbnails are
// derived WebP copies for list views.
type EvidenceProcessor struct {
	basePath string
	logger   *logging.ChanneledLogger
}

// NewEvidenceProcessor creates a processor rooted at the configured
// media base path.
func NewEvidenceProcessor(basePath string, logger *logging.ChanneledLogger) *EvidenceProcessor {
	return &EvidenceProcessor{basePath: basePath, logger: logger}
}

var binaryImagePattern = regexp.MustCompile(`^data:image/\w+;base64,`)

// thumbnail width in pixels
const thumbWidth = 600

// SaveEvidencePhoto stores a base64-encoded photo under the encounter's
// evidence directory and generates a WebP thumbnail. Returns the
// relative URL paths of the original and the thumbnail.
func (p *EvidenceProcessor) SaveEvidencePhoto(data, encounterID string) (string, string, error) {
	if data == "" {
		return "", "", fmt.Errorf("empty base64 data")
	}

	ext := extractExtension(data)
	if ext == "" {
		return "", "", fmt.Errorf("unsupported image format")
	}

	timestamp := time.Now().UnixMilli()
	filename := fmt.Sprintf("%s-%d.%s", encounterID, timestamp, ext)

	evidenceDir := filepath.Join(p.basePath, "evidence", encounterID)
	thumbsDir := filepath.Join(evidenceDir, "thumbs")
	if err := os.MkdirAll(thumbsDir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create evidence directory: %w", err)
	}

	originalPath, err := writeBinaryImage(data, filename, evidenceDir)
	if err != nil {
		return "", "", err
	}

	thumbPath, err := p.generateThumbnail(originalPath, encounterID, timestamp, thumbsDir)
	if err != nil {
		// The original is the evidence; a missing thumbnail is cosmetic.
		p.logger.System().Warn("Evidence thumbnail generation failed", "encounterId", encounterID, "error", err.Error())
		return relativeURL("evidence", encounterID, filename), "", nil
	}

	return relativeURL("evidence", encounterID, filename),
		relativeURL("evidence", encounterID, "thumbs", filepath.Base(thumbPath)),
		nil
}

// DeleteEvidence removes all photos stored for an encounter.
func (p *EvidenceProcessor) DeleteEvidence(encounterID string) error {
	if encounterID == "" {
		return fmt.Errorf("empty encounter id")
	}
	dir := filepath.Join(p.basePath, "evidence", encounterID)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove evidence directory: %w", err)
	}
	return nil
}

func (p *EvidenceProcessor) generateThumbnail(originalPath, encounterID string, timestamp int64, thumbsDir string) (string, error) {
	file, err := os.Open(originalPath)
	if err != nil {
		return "", fmt.Errorf("failed to open original file: %w", err)
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	thumbPath := filepath.Join(thumbsDir, fmt.Sprintf("%s-%d_%dpx.webp", encounterID, timestamp, thumbWidth))

	if err := webp.Save(thumbPath, resized, &webp.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to save WebP thumbnail: %w", err)
	}
	return thumbPath, nil
}

func writeBinaryImage(data, filename, targetDir string) (string, error) {
	if !binaryImagePattern.MatchString(data) {
		return "", fmt.Errorf("invalid binary image base64 format")
	}

	b64Data := binaryImagePattern.ReplaceAllString(data, "")
	decoded, err := base64.StdEncoding.DecodeString(b64Data)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	fullPath := filepath.Join(targetDir, filename)
	if err := os.WriteFile(fullPath, decoded, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return fullPath, nil
}

// extractExtension auto-detects file extension from MIME type
func extractExtension(data string) string {
	switch {
	case strings.Contains(data, "data:image/png"):
		return "png"
	case strings.Contains(data, "data:image/jpeg"), strings.Contains(data, "data:image/jpg"):
		return "jpg"
	case strings.Contains(data, "data:image/webp"):
		return "webp"
	case strings.Contains(data, "data:image/heic"):
		return "heic"
	}
	return ""
}

func relativeURL(parts ...string) string {
	joined := filepath.Join(append([]string{"/media"}, parts...)...)
	return strings.ReplaceAll(joined, "\\", "/")
}
