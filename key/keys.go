// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Site Information - these keys describe the published site and where its content lives.
const (
	SiteRoot     = "site.root"
	SiteOrigin   = "site.origin"
	SiteTitle    = "site.title"
	SiteLanguage = "site.language"
)

// Media Playback - these keys tune the dual-source player controller and its engines.
const (
	PlayerPollInterval      = "player.poll_interval_ms"
	PlayerSeekStep          = "player.seek_step"
	PlayerMPVPath           = "player.mpv_path"
	PlayerEmbeddedContainer = "player.embedded_container"
	PlayerWatchContent      = "player.watch_content"
)

// Upload Pipeline - these keys configure the offline encode-and-publish tool.
const (
	UploadFFmpegPath         = "upload.ffmpeg_path"
	UploadUploaderPath       = "upload.uploader_path"
	UploadImage              = "upload.image"
	UploadPrivacy            = "upload.privacy"
	UploadDefaultDescription = "upload.default_description"
	UploadProbe              = "upload.probe"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the page's styling and logic.
const (
	TUIItemSpacing = "tui.item_spacing"
	TUIShowURLs    = "tui.show_urls"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)
