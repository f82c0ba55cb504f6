// Package actions runs the remote job/process controls of the admin console.
// Each action makes one request and turns the result into a user-visible
// outcome; nothing is returned as an error.
package actions

import (
	"context"
	"log/slog"
	"time"

	"github.com/fiscal-auditor/adminctl/internal/api"
	"github.com/fiscal-auditor/adminctl/internal/audit"
	"github.com/fiscal-auditor/adminctl/internal/notify"
	"github.com/fiscal-auditor/adminctl/internal/overlay"
)

// Action names an operation, also used as the audit action key.
type Action string

const (
	DeleteProcess Action = "delete_process"
	RunJob        Action = "run_job"
	ToggleJob     Action = "toggle_job"
)

const (
	ConfirmDeletePrompt = "Tem certeza que deseja excluir este processo?"

	msgDeleted      = "Processo excluído com sucesso"
	msgDeleteFailed = "Erro ao excluir processo"
	msgRunOK        = "Job executado com sucesso"
	msgRunFailed    = "Erro ao executar job"
	msgActivated    = "Job ativado com sucesso"
	msgDeactivated  = "Job desativado com sucesso"
	msgToggleFailed = "Erro ao atualizar status do job"
	runOverlayLabel = "Carregando..."
)

// Backend is the part of the API client the actions call.
type Backend interface {
	DeleteProcess(ctx context.Context, id int) error
	RunJob(ctx context.Context, id int) error
	SetJobActive(ctx context.Context, id int, active bool) (api.Job, error)
}

// Overlay blocks the screen while a request is in flight.
type Overlay interface {
	Show(label string) overlay.Handle
	Hide(h overlay.Handle)
}

// Auditor records outcomes.
type Auditor interface {
	Record(ctx context.Context, e audit.Entry) (audit.Entry, error)
}

// Confirmer asks the user a yes/no question.
type Confirmer func(prompt string) bool

// Confirmed answers yes without asking, for callers that confirmed up front.
func Confirmed(string) bool { return true }

// Delays is how long to wait after a success before the host refetches.
type Delays struct {
	Delete time.Duration
	Run    time.Duration
	Toggle time.Duration
}

// DefaultDelays matches the dashboard's reload timing.
var DefaultDelays = Delays{Delete: time.Second, Run: 2 * time.Second, Toggle: time.Second}

// Outcome is the terminal state of one action. RefreshAfter is zero unless
// the host should refetch and re-render.
type Outcome struct {
	Action       Action
	TargetID     int
	OK           bool
	Skipped      bool
	Message      string
	Severity     notify.Severity
	RefreshAfter time.Duration
	// Active is the job's requested state for ToggleJob.
	Active bool
}

// Runner wires the actions to their collaborators. Only Backend is required.
type Runner struct {
	Backend  Backend
	Notifier notify.Notifier
	Overlay  Overlay
	Audit    Auditor
	Delays   Delays
	Log      *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

// DeleteProcess confirms, then deletes process id.
func (r *Runner) DeleteProcess(ctx context.Context, id int, confirm Confirmer) Outcome {
	if confirm != nil && !confirm(ConfirmDeletePrompt) {
		return Outcome{Action: DeleteProcess, TargetID: id, Skipped: true}
	}
	if err := r.Backend.DeleteProcess(ctx, id); err != nil {
		r.logger().Warn("delete process failed", "id", id, "err", err)
		return r.finish(ctx, Outcome{Action: DeleteProcess, TargetID: id, Message: msgDeleteFailed, Severity: notify.Error})
	}
	return r.finish(ctx, Outcome{
		Action: DeleteProcess, TargetID: id, OK: true,
		Message: msgDeleted, Severity: notify.Success, RefreshAfter: r.Delays.Delete,
	})
}

// RunJob triggers job id with the loading overlay up for the duration of the
// request. The overlay is hidden on every path.
func (r *Runner) RunJob(ctx context.Context, id int) Outcome {
	var h overlay.Handle
	if r.Overlay != nil {
		h = r.Overlay.Show(runOverlayLabel)
	}
	err := r.Backend.RunJob(ctx, id)
	if r.Overlay != nil {
		r.Overlay.Hide(h)
	}
	if err != nil {
		r.logger().Warn("run job failed", "id", id, "err", err)
		msg := api.ServerMessage(err)
		if msg == "" {
			msg = msgRunFailed
		}
		return r.finish(ctx, Outcome{Action: RunJob, TargetID: id, Message: msg, Severity: notify.Error})
	}
	return r.finish(ctx, Outcome{
		Action: RunJob, TargetID: id, OK: true,
		Message: msgRunOK, Severity: notify.Success, RefreshAfter: r.Delays.Run,
	})
}

// ToggleJob flips job id from current to !current.
func (r *Runner) ToggleJob(ctx context.Context, id int, current bool) Outcome {
	next := !current
	if _, err := r.Backend.SetJobActive(ctx, id, next); err != nil {
		r.logger().Warn("toggle job failed", "id", id, "active", next, "err", err)
		return r.finish(ctx, Outcome{Action: ToggleJob, TargetID: id, Active: next, Message: msgToggleFailed, Severity: notify.Error})
	}
	msg := msgDeactivated
	if next {
		msg = msgActivated
	}
	return r.finish(ctx, Outcome{
		Action: ToggleJob, TargetID: id, OK: true, Active: next,
		Message: msg, Severity: notify.Success, RefreshAfter: r.Delays.Toggle,
	})
}

func (r *Runner) finish(ctx context.Context, o Outcome) Outcome {
	if r.Notifier != nil {
		r.Notifier.Notify(o.Message, o.Severity)
	}
	if r.Audit != nil {
		// the action already happened; a failed audit write only gets logged
		if _, err := r.Audit.Record(context.WithoutCancel(ctx), audit.Entry{
			Action: string(o.Action), TargetID: o.TargetID, OK: o.OK, Message: o.Message,
		}); err != nil {
			r.logger().Error("audit record failed", "action", o.Action, "id", o.TargetID, "err", err)
		}
	}
	r.logger().Info("action finished", "action", o.Action, "id", o.TargetID, "ok", o.OK)
	return o
}
