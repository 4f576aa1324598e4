package planner

import (
	"errors"
	"hash/fnv"
	"strings"
	"time"

	"github.com/planforge/planforge/internal/core/domain"
)

// Synthesizer orders extracted tasks into phases and lays them out on a
// calendar. The whole stage is deterministic: the same extraction, project
// name and start date always produce the same plan.
type Synthesizer struct {
	tpl Templates
}

func New(tpl Templates) *Synthesizer {
	return &Synthesizer{tpl: tpl}
}

type Request struct {
	DocumentID  string
	ProjectName string
	StartDate   time.Time
	Extraction  domain.Extraction
}

type phaseBuild struct {
	name     string
	kind     domain.PhaseKind
	position int
	tasks    []domain.TaskCandidate
}

func (s *Synthesizer) Synthesize(req Request) (*domain.Plan, error) {
	if req.StartDate.IsZero() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "synthesize plan",
			errors.New("start date is required"))
	}

	ex := req.Extraction
	fallback := len(ex.Phases) == 0
	phases := s.phaseSkeleton(ex.Phases)
	s.assignTasks(phases, ex.Tasks, fallback)

	if taskTotal(phases) == 0 {
		s.scaffold(phases)
	} else {
		phases = dropEmpty(phases)
	}

	plan := &domain.Plan{
		DocumentID:  req.DocumentID,
		ProjectName: req.ProjectName,
		Description: strings.Join(ex.Objectives, " "),
		StartDate:   req.StartDate,
		Fallback:    fallback,
		Confidence:  ex.Confidence,
	}
	s.schedule(plan, phases)
	return plan, nil
}

// phaseSkeleton builds the ordered phase list: detected markers deduplicated
// by canonical kind (or by name for unmapped markers), in first-mention
// order; the generic template when nothing was detected.
func (s *Synthesizer) phaseSkeleton(markers []domain.PhaseMarker) []*phaseBuild {
	if len(markers) == 0 {
		out := make([]*phaseBuild, 0, len(domain.CanonicalPhaseOrder))
		for i, kind := range domain.CanonicalPhaseOrder {
			out = append(out, &phaseBuild{name: s.tpl.phaseName(kind), kind: kind, position: i})
		}
		return out
	}

	var out []*phaseBuild
	seen := map[string]bool{}
	for _, m := range markers {
		key := string(m.Kind)
		if m.Kind == domain.PhaseUnspecified {
			key = "name:" + strings.ToLower(m.Name)
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		name := m.Name
		if m.Kind != domain.PhaseUnspecified {
			name = s.tpl.phaseName(m.Kind)
		}
		out = append(out, &phaseBuild{name: name, kind: m.Kind, position: m.Position})
	}
	return out
}

func (s *Synthesizer) assignTasks(phases []*phaseBuild, tasks []domain.TaskCandidate, fallback bool) {
	byKind := map[domain.PhaseKind]*phaseBuild{}
	for _, p := range phases {
		if p.kind != domain.PhaseUnspecified && byKind[p.kind] == nil {
			byKind[p.kind] = p
		}
	}

	for _, task := range tasks {
		if p, ok := byKind[task.Phase]; ok && task.Phase != domain.PhaseUnspecified {
			p.tasks = append(p.tasks, task)
			continue
		}
		if fallback {
			// No markers in the text: positions carry no phase information.
			phases[0].tasks = append(phases[0].tasks, task)
			continue
		}
		phaseAtPosition(phases, task.Position).tasks = append(phaseAtPosition(phases, task.Position).tasks, task)
	}
}

// phaseAtPosition places a task under the last phase mentioned at or before
// the task's sentence, or the first phase for tasks preceding all markers.
func phaseAtPosition(phases []*phaseBuild, position int) *phaseBuild {
	chosen := phases[0]
	for _, p := range phases {
		if p.position <= position {
			chosen = p
		}
	}
	return chosen
}

// scaffold fills an entirely task-less plan with one template task per phase
// so vague documents still yield a workable starting plan.
func (s *Synthesizer) scaffold(phases []*phaseBuild) {
	for i, p := range phases {
		p.tasks = append(p.tasks, domain.TaskCandidate{
			Name:     s.tpl.defaultTask(p.kind, p.name),
			Priority: domain.PriorityMedium,
			Phase:    p.kind,
			Position: i,
		})
	}
}

func (s *Synthesizer) schedule(plan *domain.Plan, phases []*phaseBuild) {
	cursor := plan.StartDate
	taskID := 0
	prevID := 0
	totalDays := 0

	for order, p := range phases {
		phase := domain.Phase{
			Name:  p.name,
			Kind:  p.kind,
			Order: order + 1,
		}

		for _, candidate := range p.tasks {
			duration := candidate.DurationDays
			if duration <= 0 {
				duration = s.tpl.defaultDays(p.kind)
			}

			taskID++
			task := domain.Task{
				ID:           taskID,
				Name:         candidate.Name,
				Notes:        candidate.Description,
				Priority:     candidate.Priority,
				DurationDays: duration,
				Start:        cursor,
				Finish:       cursor.AddDate(0, 0, duration),
				OutlineLevel: outlineLevel(candidate.Name),
			}
			if prevID != 0 && linksToPrevious(task.Name) {
				task.Predecessor = prevID
			}
			prevID = taskID
			totalDays += duration

			// Successive tasks overlap by half the duration, so plans stay
			// compact without serializing everything.
			step := duration / 2
			if step < 1 {
				step = 1
			}
			cursor = cursor.AddDate(0, 0, step)

			phase.Tasks = append(phase.Tasks, task)
		}

		phase.Start = phase.Tasks[0].Start
		for _, task := range phase.Tasks {
			if task.Finish.After(phase.Finish) {
				phase.Finish = task.Finish
			}
		}
		plan.Phases = append(plan.Phases, phase)

		if phase.Finish.After(plan.Finish) {
			plan.Finish = phase.Finish
		}
	}
	plan.TotalDays = totalDays
}

// linksToPrevious decides dependency edges from a stable hash of the task
// name, so roughly six of ten tasks chain onto their predecessor.
func linksToPrevious(name string) bool {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return h.Sum32()%10 < 6
}

func outlineLevel(name string) int {
	lower := strings.ToLower(name)
	for _, kw := range []string{"review", "validate", "verify", "test", "document"} {
		if strings.Contains(lower, kw) {
			return 3
		}
	}
	return 2
}

func taskTotal(phases []*phaseBuild) int {
	n := 0
	for _, p := range phases {
		n += len(p.tasks)
	}
	return n
}

func dropEmpty(phases []*phaseBuild) []*phaseBuild {
	out := phases[:0]
	for _, p := range phases {
		if len(p.tasks) > 0 {
			out = append(out, p)
		}
	}
	return out
}
