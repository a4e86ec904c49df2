package state

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding/charmap"

	"bidicss/config"
)

func TestContextWithEnv(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	time.Sleep(10 * time.Millisecond)
	uptime := env.Uptime()

	if uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}
		for i := 0; i < 3; i++ {
			env.RedirectStdLog()
			if env.restoreStdLog == nil {
				t.Errorf("Iteration %d: restoreStdLog not set", i)
			}
			env.RestoreStdLog()
		}
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{}
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
		env.RestoreStdLog()
	})
}

func TestLocalEnv_SetInputCodePage(t *testing.T) {
	env := newLocalEnv()

	if err := env.SetInputCodePage("windows-1256"); err != nil {
		t.Fatalf("SetInputCodePage() error = %v", err)
	}
	if env.CodePage != charmap.Windows1256 {
		t.Errorf("CodePage = %v, want windows-1256", env.CodePage)
	}
	if err := env.SetInputCodePage(" "); err != nil {
		t.Fatalf("SetInputCodePage() error = %v", err)
	}
	if env.CodePage != nil {
		t.Error("Expected empty name to reset code page")
	}
	if err := env.SetInputCodePage("no-such-charset"); err == nil {
		t.Error("Expected error for unknown code page")
	}
}

func TestLocalEnv_Decode(t *testing.T) {
	tests := []struct {
		name     string
		codePage string
		data     []byte
		want     string
	}{
		{"plain", "", []byte("a{left:0}"), "a{left:0}"},
		{"utf8 bom", "", []byte("\xef\xbb\xbfa{}"), "a{}"},
		{"utf16 bom", "", []byte("\xff\xfea\x00{\x00}\x00"), "a{}"},
		// arabic letter alef in windows-1256
		{"code page", "windows-1256", []byte("a{content:\"\xc7\"}"), "a{content:\"ا\"}"},
		{"bom wins", "windows-1256", []byte("\xef\xbb\xbf\xd8\xa7"), "ا"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newLocalEnv()
			if err := env.SetInputCodePage(tt.codePage); err != nil {
				t.Fatalf("SetInputCodePage() error = %v", err)
			}
			got, err := env.Decode(tt.data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalEnv_NewProcessor(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	env := &LocalEnv{Cfg: cfg, Log: zap.NewNop()}

	out, res, err := env.NewProcessor().ProcessBytes([]byte(".a { float: left }"), "test.css")
	if err != nil {
		t.Fatalf("ProcessBytes() error = %v", err)
	}
	if res == nil || len(out) == 0 {
		t.Fatal("Expected processing result")
	}
}
