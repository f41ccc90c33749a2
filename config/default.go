package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/yamanami-choir/yamanami/color"
	"github.com/yamanami-choir/yamanami/constant"
	"github.com/yamanami-choir/yamanami/key"
	"github.com/yamanami-choir/yamanami/style"
)

// Field is a registered setting with its default value.
type Field struct {
	Key         string
	Value       any
	Description string
	// Options, when set, lists the only accepted values.
	Options []string
}

// Section is the part of the key before the first dot.
func (f *Field) Section() string {
	section, _, _ := strings.Cut(f.Key, ".")
	return section
}

// Env is the environment variable that overrides the field.
func (f *Field) Env() string {
	return strings.ToUpper(constant.App + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Check reports whether v is acceptable for the field.
func (f *Field) Check(v any) error {
	if len(f.Options) == 0 {
		return nil
	}

	s := fmt.Sprint(v)
	if !lo.Contains(f.Options, s) {
		return fmt.Errorf("invalid value %q for %s, expected one of: %s", s, f.Key, strings.Join(f.Options, ", "))
	}
	return nil
}

// Pretty renders the field for the terminal.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// MarshalJSON includes the current value next to the default.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string   `json:"key"`
		Value       any      `json:"value"`
		Default     any      `json:"default"`
		Description string   `json:"description"`
		Type        string   `json:"type"`
		Options     []string `json:"options,omitempty"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        fmt.Sprintf("%T", f.Value),
		Options:     f.Options,
	})
}

// Default holds every registered field by key.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

func register(f Field) {
	if _, exists := Default[f.Key]; exists {
		panic("duplicate config key: " + f.Key)
	}
	Default[f.Key] = f
	EnvExposed = append(EnvExposed, f.Key)
}

func init() {
	// site
	register(Field{Key: key.SiteRoot, Value: ".", Description: "Root directory of the site sources.\nCollections are read from <root>/src/content"})
	register(Field{Key: key.SiteOrigin, Value: "https://yamanami-choir-club.netlify.app/", Description: "Origin used to resolve relative media URLs"})
	register(Field{Key: key.SiteTitle, Value: "やまなみコーラスクラブのHP", Description: "Site title shown in the page header"})
	register(Field{Key: key.SiteLanguage, Value: "ja", Description: "Default site language"})

	// player
	register(Field{Key: key.PlayerPollInterval, Value: 100, Description: "Interval in milliseconds between embedded player progress samples"})
	register(Field{Key: key.PlayerSeekStep, Value: 5, Description: "Seconds skipped by the left and right arrow keys"})
	register(Field{Key: key.PlayerMPVPath, Value: "mpv", Description: "Path to the mpv executable driving both playback engines"})
	register(Field{Key: key.PlayerEmbeddedContainer, Value: "youtube-player", Description: "Identifier of the pane hosting the embedded video player"})
	register(Field{Key: key.PlayerWatchContent, Value: true, Description: "Reload cards when files under the content directory change"})

	// upload
	register(Field{Key: key.UploadFFmpegPath, Value: "ffmpeg", Description: "Path to the ffmpeg executable used to encode uploads"})
	register(Field{Key: key.UploadUploaderPath, Value: "youtubeuploader", Description: "Path to the youtubeuploader executable"})
	register(Field{Key: key.UploadImage, Value: "src/content/audio/youtube_related/image/yamanami_icon_round.png", Description: "Still image combined with the audio track, relative to the site root"})
	register(Field{Key: key.UploadPrivacy, Value: "unlisted", Description: "Privacy status of uploaded videos", Options: []string{"public", "unlisted", "private"}})
	register(Field{Key: key.UploadDefaultDescription, Value: "Uploaded from astro-chiri", Description: "Description used when none is given"})
	register(Field{Key: key.UploadProbe, Value: true, Description: "Probe uploaded videos with yt-dlp to fill in their duration"})

	// presentation
	register(Field{Key: key.IconsVariant, Value: "plain", Description: "Icons variant (nerd requires a nerd font)", Options: []string{"emoji", "kaomoji", "plain", "squares", "nerd"}})
	register(Field{Key: key.TUIItemSpacing, Value: 1, Description: "Spacing between cards in the TUI"})
	register(Field{Key: key.TUIShowURLs, Value: false, Description: "Show media references under cards"})
	register(Field{Key: key.CliColored, Value: true, Description: "Enable colored CLI output"})

	// logs
	register(Field{Key: key.LogsWrite, Value: false, Description: "Write logs"})
	register(Field{Key: key.LogsLevel, Value: "info", Description: "Minimum level written to the log file", Options: []string{"panic", "fatal", "error", "warn", "info", "debug", "trace"}})
	register(Field{Key: key.LogsJson, Value: false, Description: "Use json format for logs"})
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":  style.Faint,
	"purple": style.Fg(color.Purple),
	"blue":   style.Fg(color.Blue),
	"value":  func(k string) any { return viper.Get(k) },
	"join":   strings.Join,
	"typeof": func(v any) string { return fmt.Sprintf("%T", v) },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			if value {
				return style.Fg(color.Green)(strconv.FormatBool(value))
			}
			return style.Fg(color.Red)(strconv.FormatBool(value))
		case string:
			return style.Fg(color.Yellow)(strconv.Quote(value))
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl .Value }}
{{ blue "Type:" }}    {{ typeof .Value }}{{ if .Options }}
{{ blue "Options:" }} {{ join .Options ", " }}{{ end }}`))
