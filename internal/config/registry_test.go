package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/muurk/fieldkit/internal/combobox"
	"github.com/muurk/fieldkit/internal/overlay"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if configDir != filepath.Join("/tmp/xdg", "fieldkit") {
		t.Errorf("GetConfigDir() = %v, want /tmp/xdg/fieldkit", configDir)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if cfg.Combobox.Debounce() != combobox.DefaultDebounce {
		t.Errorf("Debounce() = %v, want %v", cfg.Combobox.Debounce(), combobox.DefaultDebounce)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
	if !*cfg.Action.Options().ShowLoading {
		t.Error("loading indicator should be on by default")
	}
}

func TestLocale(t *testing.T) {
	pt := Locale("pt-BR")
	if pt.Combobox.Messages.NoResults != "Nenhum item encontrado" {
		t.Errorf("NoResults = %q", pt.Combobox.Messages.NoResults)
	}
	if pt.Action.Messages.InternalServerError != "Ops! Erro interno do servidor" {
		t.Errorf("InternalServerError = %q", pt.Action.Messages.InternalServerError)
	}
	if pt.Pager.Messages.Of != "de" {
		t.Errorf("Of = %q, want de", pt.Pager.Messages.Of)
	}

	if Locale("xx").Combobox.Messages != Default().Combobox.Messages {
		t.Error("unknown locales should fall back to English")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `version: 1
locale: pt-BR
combobox:
  debounce_ms: 100
  messages:
    no_results: "Nada por aqui"
action:
  toast_position: top
  show_loading: false
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Combobox.DebounceMS != 100 {
		t.Errorf("DebounceMS = %d, want 100", cfg.Combobox.DebounceMS)
	}
	if cfg.Combobox.Messages.NoResults != "Nada por aqui" {
		t.Errorf("NoResults = %q", cfg.Combobox.Messages.NoResults)
	}
	if cfg.Combobox.Messages.Loading != "Carregando..." {
		t.Errorf("Loading = %q, want locale default", cfg.Combobox.Messages.Loading)
	}
	if cfg.Action.ToastPosition != overlay.Top {
		t.Errorf("ToastPosition = %q", cfg.Action.ToastPosition)
	}
	if *cfg.Action.ShowLoading {
		t.Error("ShowLoading should be false")
	}
	if cfg.Pager.PageSize != Default().Pager.PageSize {
		t.Errorf("PageSize = %d, want default", cfg.Pager.PageSize)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fieldkit.toml")
	data := `version = 1

[combobox]
presentation = "modal"

[pager]
page_size = 50
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Combobox.Presentation != combobox.PresentationMode(combobox.PresentModal) {
		t.Errorf("Presentation = %q", cfg.Combobox.Presentation)
	}
	if cfg.Pager.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", cfg.Pager.PageSize)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		file string
		data string
	}{
		{"bad version", "v.yaml", "version: 2\n"},
		{"bad presentation", "p.yaml", "combobox:\n  presentation: sideways\n"},
		{"bad toast position", "t.toml", "[action]\ntoast_position = \"left\"\n"},
		{"bad extension", "c.json", "{}"},
		{"malformed", "m.yaml", "combobox: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.data), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() should fail")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			cfg := Locale("pt-BR")
			cfg.Pager.PageSize = 10

			if err := cfg.Save(path); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
				t.Error("temporary file should be renamed away")
			}

			data, _ := os.ReadFile(path)
			if !strings.HasPrefix(string(data), "# fieldkit configuration file") {
				t.Error("saved file should start with the header comment")
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if loaded.Pager.PageSize != 10 || loaded.Action.Messages != cfg.Action.Messages {
				t.Errorf("round trip mismatch: %+v", loaded)
			}
		})
	}
}

func TestLoadDefaultMissingFile(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	if cfg.Locale != "en" {
		t.Errorf("Locale = %q, want en", cfg.Locale)
	}
}
