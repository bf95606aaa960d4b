package styles

var (
	IconMapping   = "◆"
	IconReference = "◈"
	IconFile      = "▤"
	IconSheet     = "▦"
	IconWarning   = "▲"
)
