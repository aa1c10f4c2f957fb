package config

import (
	"fmt"
	"time"

	"github.com/muurk/fieldkit/internal/action"
	"github.com/muurk/fieldkit/internal/combobox"
	"github.com/muurk/fieldkit/internal/overlay"
	"github.com/muurk/fieldkit/internal/pager"
)

// CurrentVersion is the only config file version understood.
const CurrentVersion = 1

// DefaultCompactWidth is the terminal width below which the auto
// presentation uses a modal list.
const DefaultCompactWidth = 60

// Config holds library defaults for every component.
type Config struct {
	Version  int            `yaml:"version" toml:"version"`
	Locale   string         `yaml:"locale,omitempty" toml:"locale,omitempty"`
	Combobox ComboboxConfig `yaml:"combobox" toml:"combobox"`
	Action   ActionConfig   `yaml:"action" toml:"action"`
	Pager    PagerConfig    `yaml:"pager" toml:"pager"`
}

// ComboboxConfig configures combobox engines and widgets.
type ComboboxConfig struct {
	Messages     combobox.Messages         `yaml:"messages" toml:"messages"`
	DebounceMS   int                       `yaml:"debounce_ms" toml:"debounce_ms"`
	Presentation combobox.PresentationMode `yaml:"presentation" toml:"presentation"`
	CompactWidth int                       `yaml:"compact_width" toml:"compact_width"`
	ListHeight   int                       `yaml:"list_height" toml:"list_height"`
}

// Debounce returns DebounceMS as a duration.
func (c ComboboxConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// ActionConfig configures the action controller.
type ActionConfig struct {
	Messages        action.Messages  `yaml:"messages" toml:"messages"`
	ToastPosition   overlay.Position `yaml:"toast_position" toml:"toast_position"`
	ToastDurationMS int              `yaml:"toast_duration_ms" toml:"toast_duration_ms"`
	ShowLoading     *bool            `yaml:"show_loading,omitempty" toml:"show_loading,omitempty"`
}

// Options converts the section to controller defaults.
func (a ActionConfig) Options() action.Options {
	return action.Merge(action.DefaultOptions(), action.Options{
		ToastPosition: a.ToastPosition,
		ToastDuration: time.Duration(a.ToastDurationMS) * time.Millisecond,
		ShowLoading:   a.ShowLoading,
		Messages:      a.Messages,
	})
}

// PagerConfig configures pagers.
type PagerConfig struct {
	PageSize int            `yaml:"page_size" toml:"page_size"`
	Messages pager.Messages `yaml:"messages" toml:"messages"`
}

// Default returns the English defaults.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Locale:  "en",
		Combobox: ComboboxConfig{
			Messages:     combobox.DefaultMessages(),
			DebounceMS:   int(combobox.DefaultDebounce / time.Millisecond),
			Presentation: combobox.PresentAuto,
			CompactWidth: DefaultCompactWidth,
			ListHeight:   combobox.DefaultListHeight,
		},
		Action: ActionConfig{
			Messages:        action.DefaultMessages(),
			ToastPosition:   overlay.Bottom,
			ToastDurationMS: int(action.DefaultToastDuration / time.Millisecond),
			ShowLoading:     action.Bool(true),
		},
		Pager: PagerConfig{
			PageSize: pager.DefaultPageSize,
			Messages: pager.DefaultMessages(),
		},
	}
}

// Locale returns the defaults translated to the named locale. Unknown
// locales fall back to English.
func Locale(name string) *Config {
	cfg := Default()
	switch name {
	case "pt-BR", "pt_BR", "pt":
		cfg.Locale = "pt-BR"
		cfg.Combobox.Messages = combobox.Messages{
			Loading:           "Carregando...",
			NoResults:         "Nenhum item encontrado",
			SearchPlaceholder: "Pesquisar",
			Confirm:           "Confirmar",
			Clear:             "Limpar",
			NoChoices:         "Nenhum item foi escolhido",
			SelectOne:         "Selecione um item da lista",
			SelectMany:        "Selecione um ou mais itens da lista",
		}
		cfg.Action.Messages = action.Messages{
			Sending:             "Enviando...",
			Timeout:             "O servidor demorou para responder, por favor, tente novamente",
			NotFound:            "Não encontramos o que você está procurando",
			Forbidden:           "Você não possui permissão para continuar",
			BadRequest:          "Corrija o preenchimento de todos os campos",
			InternalServerError: "Ops! Erro interno do servidor",
		}
		cfg.Pager.Messages = pager.Messages{
			NextPage:     "Próxima",
			PreviousPage: "Anterior",
			FirstPage:    "Primeira Página",
			LastPage:     "Última Página",
			Of:           "de",
		}
	}
	return cfg
}

// fill replaces zero fields with values from def.
func (c *Config) fill(def *Config) {
	if c.Locale == "" {
		c.Locale = def.Locale
	}
	c.Combobox.Messages = def.Combobox.Messages.Merge(c.Combobox.Messages)
	if c.Combobox.DebounceMS == 0 {
		c.Combobox.DebounceMS = def.Combobox.DebounceMS
	}
	if c.Combobox.Presentation == "" {
		c.Combobox.Presentation = def.Combobox.Presentation
	}
	if c.Combobox.CompactWidth <= 0 {
		c.Combobox.CompactWidth = def.Combobox.CompactWidth
	}
	if c.Combobox.ListHeight <= 0 {
		c.Combobox.ListHeight = def.Combobox.ListHeight
	}

	c.Action.Messages = def.Action.Messages.Merge(c.Action.Messages)
	if c.Action.ToastPosition == "" {
		c.Action.ToastPosition = def.Action.ToastPosition
	}
	if c.Action.ToastDurationMS <= 0 {
		c.Action.ToastDurationMS = def.Action.ToastDurationMS
	}
	if c.Action.ShowLoading == nil {
		c.Action.ShowLoading = action.Bool(*def.Action.ShowLoading)
	}

	if c.Pager.PageSize <= 0 {
		c.Pager.PageSize = def.Pager.PageSize
	}
	c.Pager.Messages = def.Pager.Messages.Merge(c.Pager.Messages)
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}
	switch c.Combobox.Presentation {
	case combobox.PresentAuto, combobox.PresentationMode(combobox.PresentInline),
		combobox.PresentationMode(combobox.PresentPopover), combobox.PresentationMode(combobox.PresentModal):
	default:
		return fmt.Errorf("invalid combobox presentation: %q", c.Combobox.Presentation)
	}
	switch c.Action.ToastPosition {
	case overlay.Top, overlay.Middle, overlay.Bottom:
	default:
		return fmt.Errorf("invalid toast position: %q", c.Action.ToastPosition)
	}
	return nil
}
