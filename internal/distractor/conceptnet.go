// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package distractor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/mcq-engine/internal/httputil"
	"github.com/pdiddy/mcq-engine/pkg/types"
)

// Relation queried on ConceptNet.
const partOfRelation = "/r/PartOf"

// ConceptNet proposes distractors from the ConceptNet 5 graph. For a term
// it finds the wholes the term is part of, then the other parts of each
// whole. It needs no resolved sense.
type ConceptNet struct {
	cfg     types.ConceptNetConfig
	client  *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewConceptNet creates a ConceptNet strategy. Zero-valued settings in cfg
// take their defaults. A nil logger discards output.
func NewConceptNet(cfg types.ConceptNetConfig, logger *zap.Logger) *ConceptNet {
	def := types.DefaultConceptNetConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.PrimaryLimit <= 0 {
		cfg.PrimaryLimit = def.PrimaryLimit
	}
	if cfg.SecondaryLimit <= 0 {
		cfg.SecondaryLimit = def.SecondaryLimit
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = def.RatePerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &ConceptNet{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		log:     logger,
	}
}

// Name returns the strategy identifier.
func (c *ConceptNet) Name() string { return "conceptnet" }

// Distractors queries the wholes of term (at most PrimaryLimit), then the
// parts of each whole (at most SecondaryLimit each), and returns the part
// labels that do not contain term. Any failed request fails the term.
func (c *ConceptNet) Distractors(ctx context.Context, term string, _ *types.Sense) ([]string, error) {
	word := strings.Join(strings.Fields(strings.ToLower(term)), "_")
	if word == "" {
		return nil, nil
	}
	concept := "/c/en/" + word

	wholes, err := c.query(ctx, url.Values{
		"node":  {concept + "/n"},
		"rel":   {partOfRelation},
		"start": {concept},
		"limit": {strconv.Itoa(c.cfg.PrimaryLimit)},
	})
	if err != nil {
		return nil, err
	}
	if len(wholes) > c.cfg.PrimaryLimit {
		wholes = wholes[:c.cfg.PrimaryLimit]
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	var out []string
	seen := make(map[string]bool)
	for _, whole := range wholes {
		link := whole.End.Term
		if link == "" {
			continue
		}
		parts, err := c.query(ctx, url.Values{
			"node":  {link},
			"rel":   {partOfRelation},
			"end":   {link},
			"limit": {strconv.Itoa(c.cfg.SecondaryLimit)},
		})
		if err != nil {
			return nil, err
		}
		if len(parts) > c.cfg.SecondaryLimit {
			parts = parts[:c.cfg.SecondaryLimit]
		}
		for _, part := range parts {
			label := strings.TrimSpace(part.Start.Label)
			if label == "" || seen[label] || strings.Contains(strings.ToLower(label), needle) {
				continue
			}
			seen[label] = true
			out = append(out, label)
		}
	}

	c.log.Debug("conceptnet distractors",
		zap.String("term", term),
		zap.Int("wholes", len(wholes)),
		zap.Int("distractors", len(out)))
	return out, nil
}

// query performs one rate-limited /query call and returns its edges.
func (c *ConceptNet) query(ctx context.Context, params url.Values) ([]conceptNetEdge, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for ConceptNet rate limit: %w", err)
	}

	reqURL := c.cfg.BaseURL + "/query?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("ConceptNet API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ConceptNet API returned HTTP %d", resp.StatusCode)
	}

	var cr conceptNetResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing ConceptNet response: %w", err)
	}
	return cr.Edges, nil
}

// ConceptNet API JSON structures. Only the fields used are declared;
// missing fields decode as empty strings and are skipped.
type conceptNetResponse struct {
	Edges []conceptNetEdge `json:"edges"`
}

type conceptNetEdge struct {
	Start conceptNetNode `json:"start"`
	End   conceptNetNode `json:"end"`
}

type conceptNetNode struct {
	Label string `json:"label"`
	Term  string `json:"term"`
}
