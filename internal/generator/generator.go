package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Dreadfxl/imagensd-api/internal/database"
	"github.com/Dreadfxl/imagensd-api/internal/model"
	"github.com/Dreadfxl/imagensd-api/internal/storage"
	"github.com/Dreadfxl/imagensd-api/internal/store"
)

// Source selects the generation backend. The two variants have different
// payload shapes; buildRequest switches over them exhaustively so a new
// backend cannot fall through silently.
type Source string

const (
	SourceLocal    Source = "local"
	SourceExternal Source = "external"
)

const (
	// maxPremiumBatch caps a premium generation batch; free users always get 1.
	maxPremiumBatch = 4

	// inlineImageThreshold separates inline base64 payloads from plain URLs.
	// Anything longer than a short URL is treated as encoded image data.
	inlineImageThreshold = 200
)

// Fixed fine-tuning preset sent to the local Stable Diffusion WebUI.
const (
	localSampler  = "Euler a"
	localSteps    = 30
	localWidth    = 512
	localHeight   = 768
	localCfgScale = 7
)

var (
	ErrEmptyPrompt    = errors.New("prompt is required")
	ErrUnknownSource  = errors.New("unknown generation source")
	ErrPromptNotFound = errors.New("prompt not found")
)

// IsInvalidRequest reports whether err is caller input the gateway rejected,
// as opposed to a backend or storage failure.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrEmptyPrompt) ||
		errors.Is(err, ErrUnknownSource) ||
		errors.Is(err, ErrPromptNotFound)
}

var (
	getPromptByID        = store.GetPromptByID
	createGeneratedImage = store.CreateGeneratedImage
	saveEncodedImages    = storage.SaveEncodedImages
)

// localPayload is the txt2img request shape of the SD WebUI backend.
type localPayload struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
	SamplerName    string `json:"sampler_name"`
	Steps          int    `json:"steps"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	CfgScale       int    `json:"cfg_scale"`
	BatchSize      int    `json:"batch_size"`
}

// externalPayload is the reduced shape of the alternate external API.
type externalPayload struct {
	Prompt    string `json:"prompt"`
	BatchSize int    `json:"batch_size"`
}

type apiResponse struct {
	Images []string `json:"images"`
}

// Request carries a validated generation call for one user.
type Request struct {
	Prompt         string
	NegativePrompt string
	Style          string
	PromptID       *int
	Source         Source
	BatchSize      int
}

// Gateway proxies generation calls to the configured backends and records
// every produced image.
type Gateway struct {
	client         *http.Client
	sdAPIURL       string
	externalAPIURL string
	uploadsDir     string
}

// New builds a Gateway. timeout bounds the whole outbound call; there are
// no retries.
func New(sdAPIURL, externalAPIURL, uploadsDir string, timeout time.Duration) *Gateway {
	return &Gateway{
		client:         &http.Client{Timeout: timeout},
		sdAPIURL:       sdAPIURL,
		externalAPIURL: externalAPIURL,
		uploadsDir:     uploadsDir,
	}
}

// resolveBatchSize applies the admission policy server-side: free users
// generate exactly 1 image; premium users are clamped into [1, maxPremiumBatch].
func resolveBatchSize(isPremium bool, requested int) int {
	if !isPremium {
		return 1
	}
	if requested < 1 {
		return 1
	}
	if requested > maxPremiumBatch {
		return maxPremiumBatch
	}
	return requested
}

func (g *Gateway) buildRequest(req Request, batchSize int) (string, any, error) {
	switch req.Source {
	case SourceExternal:
		return g.externalAPIURL, externalPayload{
			Prompt:    req.Prompt,
			BatchSize: batchSize,
		}, nil
	case SourceLocal, "":
		return g.sdAPIURL + "/sdapi/v1/txt2img", localPayload{
			Prompt:         req.Prompt,
			NegativePrompt: req.NegativePrompt,
			SamplerName:    localSampler,
			Steps:          localSteps,
			Width:          localWidth,
			Height:         localHeight,
			CfgScale:       localCfgScale,
			BatchSize:      batchSize,
		}, nil
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownSource, req.Source)
	}
}

// Generate runs one synchronous generation call and returns the inserted
// rows in backend order. Rows are inserted one by one without a wrapping
// transaction; rows inserted before a later insert failure remain.
//
// The outbound call is detached from any inbound request context: a
// disconnecting client does not cancel generation already in flight.
func (g *Gateway) Generate(ctx context.Context, db database.DB, userID int, isPremium bool, req Request) ([]model.GeneratedImage, error) {
	if req.Prompt == "" {
		return nil, ErrEmptyPrompt
	}

	// A supplied prompt_id must belong to the caller; the ownership-scoped
	// lookup answers identically for missing and not-owned ids.
	if req.PromptID != nil {
		if _, err := getPromptByID(ctx, db, *req.PromptID, userID); err != nil {
			if store.IsNotFound(err) {
				return nil, ErrPromptNotFound
			}
			return nil, err
		}
	}

	batchSize := resolveBatchSize(isPremium, req.BatchSize)

	url, payload, err := g.buildRequest(req, batchSize)
	if err != nil {
		return nil, err
	}

	params, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal generation params: %w", err)
	}

	images, err := g.call(url, params)
	if err != nil {
		return nil, err
	}

	paths, err := g.resolvePaths(images)
	if err != nil {
		return nil, err
	}

	inserted := make([]model.GeneratedImage, 0, len(paths))
	for _, path := range paths {
		img := &model.GeneratedImage{
			UserID:           userID,
			PromptID:         req.PromptID,
			ImagePath:        path,
			PromptUsed:       req.Prompt,
			GenerationParams: params,
		}
		if _, err := createGeneratedImage(ctx, db, img); err != nil {
			return nil, err
		}
		inserted = append(inserted, *img)
	}
	return inserted, nil
}

func (g *Gateway) call(url string, body []byte) ([]string, error) {
	res, err := g.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("generation backend: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("generation backend: unexpected status %d", res.StatusCode)
	}

	var parsed apiResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("generation backend: decode response: %w", err)
	}
	return parsed.Images, nil
}

// resolvePaths turns each backend payload into a stored location. Inline
// base64 payloads are persisted concurrently through the artifact store;
// short payloads are taken as already-resolvable URLs. Input order is kept.
func (g *Gateway) resolvePaths(images []string) ([]string, error) {
	paths := make([]string, len(images))
	var inlineIdx []int
	var inlineData []string
	for i, img := range images {
		if len(img) > inlineImageThreshold {
			inlineIdx = append(inlineIdx, i)
			inlineData = append(inlineData, img)
			continue
		}
		paths[i] = img
	}

	if len(inlineData) > 0 {
		saved, err := saveEncodedImages(g.uploadsDir, inlineData)
		if err != nil {
			return nil, err
		}
		for j, i := range inlineIdx {
			paths[i] = saved[j]
		}
	}
	return paths, nil
}
