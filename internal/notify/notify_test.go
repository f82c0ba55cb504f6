package notify

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIconPerSeverity(t *testing.T) {
	require.Equal(t, "✔", Icon(Success))
	require.Equal(t, "✖", Icon(Error))
	require.Equal(t, "⚠", Icon(Warning))
	require.Equal(t, "ℹ", Icon(Info))
	require.Equal(t, Icon(Info), Icon(Severity("critical")))
	require.Equal(t, Icon(Info), Icon(""))
}

func TestParseSeverity(t *testing.T) {
	require.Equal(t, Success, ParseSeverity("success"))
	require.Equal(t, Warning, ParseSeverity("warning"))
	require.Equal(t, Info, ParseSeverity(" WARNING "))
	require.Equal(t, Info, ParseSeverity("SUCCESS"))
	require.Equal(t, Info, ParseSeverity(""))
	require.Equal(t, Info, ParseSeverity("debug"))
}

func TestWriterNotifierPlain(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriterNotifier(&buf, false)
	n.Notify("Job executado com sucesso", Success)
	n.Notify("falhou", Severity("bogus"))
	require.Equal(t, "✔ Job executado com sucesso\nℹ falhou\n", buf.String())
}

func TestStackLifecycle(t *testing.T) {
	s := NewStack(time.Millisecond, time.Millisecond)

	cmd := s.Push("Copiado para a área de transferência", Success)
	require.NotNil(t, cmd)
	require.Equal(t, 1, s.Len())
	require.False(t, s.Toasts()[0].Leaving)
	require.Contains(t, s.View(), "Copiado para a área de transferência")

	leave := cmd()
	exitCmd := s.Update(leave)
	require.NotNil(t, exitCmd)
	require.True(t, s.Toasts()[0].Leaving)
	require.Equal(t, 1, s.Len())

	require.Nil(t, s.Update(exitCmd()))
	require.Equal(t, 0, s.Len())
	require.Equal(t, "", s.View())
}

func TestStackUnknownSeverityFallsBackToInfo(t *testing.T) {
	s := NewStack(0, 0)
	require.Equal(t, DefaultVisible, s.Visible)
	require.Equal(t, DefaultExit, s.Exit)

	s.Push("hello", Severity("loud"))
	require.Equal(t, Info, s.Toasts()[0].Severity)
	require.True(t, strings.Contains(s.View(), Icon(Info)))
}

func TestStackRemovesOnlyTargetToast(t *testing.T) {
	s := NewStack(time.Millisecond, time.Millisecond)
	first := s.Push("first", Info)
	s.Push("second", Error)

	exit := s.Update(first())
	s.Update(exit())

	left := s.Toasts()
	require.Len(t, left, 1)
	require.Equal(t, "second", left[0].Message)
	require.Nil(t, s.Update("unrelated"))
}
