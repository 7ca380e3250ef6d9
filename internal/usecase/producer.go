package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nice7girl/bws-invest-agent/internal/domain"
	"github.com/nice7girl/bws-invest-agent/internal/ports"
)

// ProducerDeps wires the script production step.
type ProducerDeps struct {
	Store          ports.ArtifactStore
	Notebook       ports.NotebookClient
	Writer         ports.ScriptWriter
	MorningOpening string
	EveningOpening string
	SettleDelay    time.Duration
	Logger         *slog.Logger
}

// Producer turns the day's report into a five-minute video production
// script through the notebook tool, with a direct LLM fallback.
type Producer struct {
	store          ports.ArtifactStore
	notebook       ports.NotebookClient
	writer         ports.ScriptWriter
	morningOpening string
	eveningOpening string
	settleDelay    time.Duration
	logger         *slog.Logger
	sleep          func(context.Context, time.Duration) error
}

// NewProducer constructs the production step.
func NewProducer(deps ProducerDeps) *Producer {
	return &Producer{
		store:          deps.Store,
		notebook:       deps.Notebook,
		writer:         deps.Writer,
		morningOpening: deps.MorningOpening,
		eveningOpening: deps.EveningOpening,
		settleDelay:    deps.SettleDelay,
		logger:         deps.Logger,
		sleep:          sleepCtx,
	}
}

// Produce uploads the day's report to the notebook, asks for a script, and
// stores the answer as a script artifact. Notebook failures fall back to a
// direct LLM generation saved under the fallback suffix. The finished
// script is uploaded back to the notebook on a best-effort basis.
func (p *Producer) Produce(ctx context.Context, slot domain.Slot, day time.Time) error {
	reportPath, ok := p.store.ReportPath(day, slot)
	if !ok {
		return fmt.Errorf("no report artifact for %s %s", domain.DateToken(day), slot)
	}

	report, err := p.store.Read(reportPath)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	uploaded := p.uploadSources(ctx, reportPath, day)
	if uploaded && p.settleDelay > 0 {
		p.info("waiting for notebook to process sources", "delay", p.settleDelay)
		if err := p.sleep(ctx, p.settleDelay); err != nil {
			return err
		}
	}

	script, kind := p.generateScript(ctx, report, slot, day, uploaded)
	if script == "" {
		return fmt.Errorf("script generation failed for %s %s", domain.DateToken(day), slot)
	}

	body := scriptHeader(slot, day) + script
	scriptPath, err := p.store.Save(day, slot, kind, body)
	if err != nil {
		return fmt.Errorf("persist script: %w", err)
	}
	p.info("script saved", "slot", slot, "path", scriptPath, "kind", kind)

	if p.notebook != nil {
		if err := p.notebook.UploadSource(ctx, scriptPath); err != nil {
			p.warn("script upload failed", "error", err)
		}
	}

	return nil
}

// uploadSources pushes the date instruction and the report to the notebook.
// Returns whether the report itself made it up.
func (p *Producer) uploadSources(ctx context.Context, reportPath string, day time.Time) bool {
	if p.notebook == nil {
		return false
	}

	if instrPath, err := writeDateInstruction(day); err != nil {
		p.warn("date instruction file failed", "error", err)
	} else {
		defer os.Remove(instrPath)
		if err := p.notebook.UploadSource(ctx, instrPath); err != nil {
			p.warn("date instruction upload failed", "error", err)
		}
	}

	if err := p.notebook.UploadSource(ctx, reportPath); err != nil {
		p.warn("report upload failed", "error", err)
		return false
	}
	return true
}

// generateScript asks the notebook first, then falls back to the direct
// writer. The returned kind records which path produced the script.
func (p *Producer) generateScript(ctx context.Context, report string, slot domain.Slot, day time.Time, uploaded bool) (string, domain.ArtifactKind) {
	if p.notebook != nil && uploaded {
		question := p.buildQuestion(slot, day)
		script, err := p.notebook.AskQuestion(ctx, question)
		if err == nil && script != "" {
			return script, domain.KindScript
		}
		p.warn("notebook question failed, using fallback writer", "error", err)
	}

	if p.writer == nil {
		return "", domain.KindScriptFallback
	}

	script, err := p.writer.WriteScript(ctx, report, slot, day)
	if err != nil {
		p.warn("fallback script generation failed", "error", err)
		return "", domain.KindScriptFallback
	}
	return script, domain.KindScriptFallback
}

func (p *Producer) buildQuestion(slot domain.Slot, day time.Time) string {
	opening := p.morningOpening
	if slot == domain.SlotEvening {
		opening = p.eveningOpening
	}

	return fmt.Sprintf(`State today's date (%s) and write a five-minute video production plan following these rules.

1. Opening: start with exactly "%s".
2. Structure: select three key points and cover each in depth, targeting five minutes total.
3. Visuals: define a [visual guide] block per point with charts, data cards or infographics.
4. Format: storyboard with presenter lines and on-screen directions.

Analyze the uploaded report and build the plan from it.`, day.Format("2006-01-02"), opening)
}

// writeDateInstruction creates a temporary note telling the notebook's audio
// overview to announce today's date.
func writeDateInstruction(day time.Time) (string, error) {
	file, err := os.CreateTemp("", "date_instruction_*.md")
	if err != nil {
		return "", fmt.Errorf("create instruction file: %w", err)
	}

	content := fmt.Sprintf(`# Podcast Instruction

Today's date is %s. When producing the audio overview, open the conversation
by stating today's date.
`, day.Format("2006-01-02"))

	if _, err := file.WriteString(content); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("write instruction file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("close instruction file: %w", err)
	}

	return file.Name(), nil
}

func scriptHeader(slot domain.Slot, day time.Time) string {
	return fmt.Sprintf("# %s %s video production script\n\n> generated: %s\n\n---\n\n",
		domain.DateToken(day), slot, time.Now().Format("2006-01-02 15:04:05"))
}

func (p *Producer) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Producer) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
