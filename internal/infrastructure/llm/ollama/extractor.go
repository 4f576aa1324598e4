package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/planforge/planforge/internal/core/domain"
	"github.com/planforge/planforge/internal/infrastructure/chunking"
)

const (
	maxTasks = 15
	maxDates = 5
)

// Extractor is the model-assisted semantic stage: structured JSON extraction
// per chunk, with embedding similarity filling in phase assignments the model
// left blank.
type Extractor struct {
	client   *Client
	splitter *chunking.Splitter
}

func NewExtractor(client *Client, splitter *chunking.Splitter) *Extractor {
	return &Extractor{client: client, splitter: splitter}
}

type extractionPayload struct {
	Objectives []string `json:"objectives"`
	Tasks      []struct {
		Name         string `json:"name"`
		Description  string `json:"description"`
		Priority     string `json:"priority"`
		DurationDays int    `json:"duration_days"`
		Phase        string `json:"phase"`
	} `json:"tasks"`
	Phases []struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	} `json:"phases"`
	Dates      []string `json:"dates"`
	Confidence float64  `json:"confidence"`
}

func (e *Extractor) ExtractEntities(ctx context.Context, text string) (domain.Extraction, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Extraction{}, nil
	}

	chunks := e.splitter.Split(text)
	var merged domain.Extraction
	seenPhases := map[string]bool{}
	confidenceSum := 0.0
	position := 0

	for _, chunk := range chunks {
		raw, err := e.client.GenerateJSON(ctx, buildExtractionPrompt(chunk))
		if err != nil {
			return domain.Extraction{}, fmt.Errorf("model extraction: %w", err)
		}

		var payload extractionPayload
		if err := json.Unmarshal([]byte(extractJSONObject(raw)), &payload); err != nil {
			return domain.Extraction{}, fmt.Errorf("parse extraction json: %w", err)
		}

		if len(merged.Objectives) == 0 {
			merged.Objectives = payload.Objectives
		}
		for _, task := range payload.Tasks {
			if strings.TrimSpace(task.Name) == "" || len(merged.Tasks) >= maxTasks {
				continue
			}
			merged.Tasks = append(merged.Tasks, domain.TaskCandidate{
				Name:         strings.TrimSpace(task.Name),
				Description:  task.Description,
				Priority:     parsePriority(task.Priority),
				DurationDays: clampDays(task.DurationDays),
				Phase:        parsePhaseKind(task.Phase),
				Position:     position,
			})
			position++
		}
		for _, phase := range payload.Phases {
			kind := parsePhaseKind(phase.Kind)
			key := string(kind) + "|" + strings.ToLower(phase.Name)
			if seenPhases[key] || strings.TrimSpace(phase.Name) == "" {
				continue
			}
			seenPhases[key] = true
			merged.Phases = append(merged.Phases, domain.PhaseMarker{
				Name:     strings.TrimSpace(phase.Name),
				Kind:     kind,
				Position: len(merged.Phases),
			})
		}
		for _, d := range payload.Dates {
			if len(merged.Dates) < maxDates {
				merged.Dates = append(merged.Dates, d)
			}
		}
		confidenceSum += payload.Confidence
	}

	if len(chunks) > 0 {
		merged.Confidence = confidenceSum / float64(len(chunks))
	}
	switch {
	case len(merged.Tasks) > 0 && len(merged.Phases) > 0:
		merged.Completeness = 1
	case len(merged.Tasks) > 0 || len(merged.Phases) > 0:
		merged.Completeness = 0.5
	}

	e.assignPhasesBySimilarity(ctx, &merged)
	return merged, nil
}

var phasePrototypes = map[domain.PhaseKind]string{
	domain.PhaseResearch:    "research, analysis, discovery, requirements gathering",
	domain.PhaseDesign:      "design, architecture, prototyping, specification",
	domain.PhaseDevelopment: "development, implementation, coding, building",
	domain.PhaseTesting:     "testing, verification, validation, quality assurance",
	domain.PhaseDeployment:  "deployment, release, launch, delivery",
}

// assignPhasesBySimilarity maps unphased tasks to the closest canonical stage
// by embedding similarity. Best effort: an embedding failure leaves tasks
// unphased and the synthesizer places them by position.
func (e *Extractor) assignPhasesBySimilarity(ctx context.Context, ex *domain.Extraction) {
	var pending []int
	for i, task := range ex.Tasks {
		if task.Phase == domain.PhaseUnspecified {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return
	}

	inputs := make([]string, 0, len(domain.CanonicalPhaseOrder)+len(pending))
	for _, kind := range domain.CanonicalPhaseOrder {
		inputs = append(inputs, phasePrototypes[kind])
	}
	for _, i := range pending {
		inputs = append(inputs, ex.Tasks[i].Name+". "+ex.Tasks[i].Description)
	}

	vectors, err := e.client.Embed(ctx, inputs)
	if err != nil {
		slog.Warn("phase_similarity_skipped", "error", err)
		return
	}

	prototypes := vectors[:len(domain.CanonicalPhaseOrder)]
	for n, i := range pending {
		taskVec := vectors[len(domain.CanonicalPhaseOrder)+n]
		best := -1
		bestScore := -math.MaxFloat64
		for p, protoVec := range prototypes {
			if score := cosine(taskVec, protoVec); score > bestScore {
				bestScore = score
				best = p
			}
		}
		if best >= 0 {
			ex.Tasks[i].Phase = domain.CanonicalPhaseOrder[best]
		}
	}
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return -1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return -1
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func parsePriority(s string) domain.Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return domain.PriorityHigh
	case "low":
		return domain.PriorityLow
	default:
		return domain.PriorityMedium
	}
}

func parsePhaseKind(s string) domain.PhaseKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "research":
		return domain.PhaseResearch
	case "design":
		return domain.PhaseDesign
	case "development":
		return domain.PhaseDevelopment
	case "testing":
		return domain.PhaseTesting
	case "deployment":
		return domain.PhaseDeployment
	default:
		return domain.PhaseUnspecified
	}
}

func clampDays(days int) int {
	if days < 0 {
		return 0
	}
	if days > 30 {
		return 30
	}
	return days
}
