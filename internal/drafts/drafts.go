// Package drafts turns a job posting into resume and cover letter drafts.
package drafts

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/amishk599/crucible/internal/model"
	"github.com/amishk599/crucible/internal/schemas"
	"github.com/amishk599/crucible/internal/templates"
	"github.com/amishk599/crucible/internal/vault"
)

//go:embed prompts/drafts.md
var draftsPromptRaw string

var draftsTemplate = template.Must(template.New("drafts").Parse(draftsPromptRaw))

// Result holds the paths the generator wrote.
type Result struct {
	ResumePath      string
	CoverLetterPath string
}

// Generator builds one prompt per job posting and writes the two drafts into
// the vault's generated folder.
type Generator struct {
	vault  vault.Layout
	caller model.JSONCaller
	logger *slog.Logger
}

// New creates a Generator.
func New(layout vault.Layout, caller model.JSONCaller, logger *slog.Logger) *Generator {
	return &Generator{vault: layout, caller: caller, logger: logger}
}

// Run generates drafts for the job posting at jobPath. An empty jobPath is a
// configuration error; a missing file wraps model.ErrNotFound. Nothing is
// written unless the provider reply passes schema validation.
func (g *Generator) Run(ctx context.Context, jobPath string) (Result, error) {
	var res Result

	input, err := g.ReadJobInput(jobPath)
	if err != nil {
		return res, err
	}

	prompt, err := BuildPrompt(input)
	if err != nil {
		return res, err
	}

	g.logger.Info("generating drafts", "job", jobPath)
	raw, err := g.caller.Call(ctx, prompt)
	if err != nil {
		return res, fmt.Errorf("generate drafts: %w", err)
	}
	if err := schemas.Validate(schemas.Drafts, raw); err != nil {
		return res, err
	}

	var drafts model.Drafts
	if err := json.Unmarshal(raw, &drafts); err != nil {
		return res, fmt.Errorf("%w: decode drafts: %v", model.ErrProviderData, err)
	}

	return g.write(jobPath, drafts)
}

// ReadJobInput loads the job posting and both packaged templates.
func (g *Generator) ReadJobInput(jobPath string) (model.JobInput, error) {
	if jobPath == "" {
		return model.JobInput{}, fmt.Errorf("%w: JOB_PATH is required", model.ErrConfig)
	}

	resume, err := templates.Load(templates.Resume)
	if err != nil {
		return model.JobInput{}, err
	}
	cover, err := templates.Load(templates.CoverLetter)
	if err != nil {
		return model.JobInput{}, err
	}
	g.logger.Debug("templates loaded",
		"resume_version", resume.Meta.Version,
		"cover_letter_version", cover.Meta.Version,
	)

	content, err := os.ReadFile(jobPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.JobInput{}, fmt.Errorf("%w: job file %s", model.ErrNotFound, jobPath)
		}
		return model.JobInput{}, fmt.Errorf("read job file: %w", err)
	}

	return model.JobInput{
		JobPath:        jobPath,
		JobContent:     string(content),
		ResumeTemplate: resume.Raw,
		CoverTemplate:  cover.Raw,
	}, nil
}

type promptPayload struct {
	JobDescription      string `json:"job_description"`
	ResumeTemplate      string `json:"resume_template"`
	CoverLetterTemplate string `json:"cover_letter_template"`
}

// BuildPrompt renders the generation instruction with the job and templates
// as a JSON payload.
func BuildPrompt(in model.JobInput) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(promptPayload{
		JobDescription:      in.JobContent,
		ResumeTemplate:      in.ResumeTemplate,
		CoverLetterTemplate: in.CoverTemplate,
	}); err != nil {
		return "", fmt.Errorf("marshal prompt payload: %w", err)
	}

	var out bytes.Buffer
	if err := draftsTemplate.Execute(&out, struct{ Payload string }{strings.TrimSpace(buf.String())}); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return out.String(), nil
}

func (g *Generator) write(jobPath string, d model.Drafts) (Result, error) {
	dir := g.vault.Generated()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating %s: %w", dir, err)
	}

	base := filepath.Base(jobPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	res := Result{
		ResumePath:      filepath.Join(dir, stem+"-resume.md"),
		CoverLetterPath: filepath.Join(dir, stem+"-cover-letter.md"),
	}
	if err := os.WriteFile(res.ResumePath, []byte(d.Resume), 0o644); err != nil {
		return Result{}, fmt.Errorf("writing resume: %w", err)
	}
	if err := os.WriteFile(res.CoverLetterPath, []byte(d.CoverLetter), 0o644); err != nil {
		return Result{}, fmt.Errorf("writing cover letter: %w", err)
	}

	g.logger.Info("drafts written", "resume", res.ResumePath, "cover_letter", res.CoverLetterPath)
	return res, nil
}
