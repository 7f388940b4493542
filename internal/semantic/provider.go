// # internal/semantic/provider.go
package semantic

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Provider converts a text into a vector representation. Implementations
// may run locally or call a remote embeddings API.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
	Name() string
}

const hashDimensions = 1000

// HashProvider produces deterministic dependency-free embeddings with
// the hashing trick: each token is bucketed by md5, with a second hash
// bit deciding the sign. Vectors are L2 normalised.
type HashProvider struct{}

func NewHashProvider() *HashProvider {
	return &HashProvider{}
}

func (p *HashProvider) Name() string { return "hash" }

func (p *HashProvider) Dimensions() int { return hashDimensions }

func (p *HashProvider) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, hashDimensions)
	for _, token := range tokenize(text) {
		sum := md5.Sum([]byte(token))
		bucket := binary.BigEndian.Uint32(sum[0:4]) % hashDimensions
		sign := float32(1)
		if sum[4]&1 == 1 {
			sign = -1
		}
		vec[bucket] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec, nil
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '_'
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}

// RemoteProvider calls an OpenAI-compatible embeddings endpoint.
// Requests are rate limited with a token bucket so watch-mode rescans
// do not hammer the API.
type RemoteProvider struct {
	endpoint   string
	model      string
	apiKey     string
	dimensions int
	client     *http.Client
	limiter    *rate.Limiter
}

type RemoteOptions struct {
	Endpoint       string
	Model          string
	APIKey         string
	Dimensions     int
	RequestsPerSec float64
	Burst          int
}

func NewRemoteProvider(opts RemoteOptions) (*RemoteProvider, error) {
	if strings.TrimSpace(opts.Endpoint) == "" {
		return nil, fmt.Errorf("remote provider endpoint must not be empty")
	}
	if opts.Model == "" {
		opts.Model = "text-embedding-3-small"
	}
	if opts.Dimensions <= 0 {
		opts.Dimensions = 1536
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 2
	}
	if opts.Burst <= 0 {
		opts.Burst = 4
	}
	return &RemoteProvider{
		endpoint:   strings.TrimRight(opts.Endpoint, "/"),
		model:      opts.Model,
		apiKey:     opts.APIKey,
		dimensions: opts.Dimensions,
		client:     &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.Burst),
	}, nil
}

func (p *RemoteProvider) Name() string { return "remote" }

func (p *RemoteProvider) Dimensions() int { return p.dimensions }

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (p *RemoteProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("embedding rate limit: %w", err)
	}

	body, err := json.Marshal(embeddingRequest{Model: p.model, Input: []string{text}})
	if err != nil {
		return nil, fmt.Errorf("encode embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embedding request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no vectors")
	}
	return parsed.Data[0].Embedding, nil
}
