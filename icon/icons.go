package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Play Icon = iota
	Pause
	Mute
	Unmute
	Audio
	Video
	Loading
	Progress
	Success
	Fail
	Mark
	Search
	Upload
)

var icons = map[Icon]*iconDef{
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "ヽ(♪´∀`)ノ",
		squares: "▶",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "",
		plain:   "||",
		kaomoji: "(￣o￣) zzZ",
		squares: "⏸",
	},
	Mute: {
		emoji:   "🔇",
		nerd:    "\U000f075f",
		plain:   "muted",
		kaomoji: "(・x・)",
		squares: "▫",
	},
	Unmute: {
		emoji:   "🔊",
		nerd:    "\U000f057e",
		plain:   "sound",
		kaomoji: "(°ロ°)",
		squares: "▪",
	},
	Audio: {
		emoji:   "🎵",
		nerd:    "",
		plain:   "[audio]",
		kaomoji: "♪(´ε` )",
		squares: "◼",
	},
	Video: {
		emoji:   "🎬",
		nerd:    "",
		plain:   "[video]",
		kaomoji: "(⌐■_■)",
		squares: "◻",
	},
	Loading: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(・_・;)",
		squares: "◌",
	},
	Progress: {
		emoji:   "👾",
		nerd:    "",
		plain:   "~",
		kaomoji: "┌(・。・)┘♪",
		squares: "▣",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "OK",
		kaomoji: "(ᵔᴥᵔ)",
		squares: "■",
	},
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "X",
		kaomoji: "(×_×)",
		squares: "□",
	},
	Mark: {
		emoji:   "✅",
		nerd:    "",
		plain:   "*",
		kaomoji: "(*´▽`*)",
		squares: "▪",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "",
		plain:   "?",
		kaomoji: "(・・ )?",
		squares: "▢",
	},
	Upload: {
		emoji:   "📤",
		nerd:    "",
		plain:   "^",
		kaomoji: "ヾ(＾∇＾)",
		squares: "▲",
	},
}
