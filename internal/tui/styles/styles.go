package styles

import "github.com/charmbracelet/lipgloss"

// Oxocarbon color scheme - IBM Carbon inspired
// Following base16 oxocarbon-dark palette
var (
	// Base colors
	OxocarbonBase00 = lipgloss.Color("#262626") // UI elements (lighter than bg)
	OxocarbonBase01 = lipgloss.Color("#393939") // Borders, secondary UI
	OxocarbonBase02 = lipgloss.Color("#525252") // Disabled/muted elements
	OxocarbonBase03 = lipgloss.Color("#767676") // Disabled/muted elements
	OxocarbonBase04 = lipgloss.Color("#dde1e6") // Secondary foreground
	OxocarbonBase05 = lipgloss.Color("#f2f4f8") // Primary foreground
	OxocarbonWhite  = lipgloss.Color("#ffffff")

	// Accent colors
	OxocarbonPink    = lipgloss.Color("#ee5396")
	OxocarbonRed     = lipgloss.Color("#ff5252")
	OxocarbonCyan    = lipgloss.Color("#33b1ff")
	OxocarbonGreen   = lipgloss.Color("#42be65")
	OxocarbonPurple  = lipgloss.Color("#be95ff") // main accent
	OxocarbonMauve   = lipgloss.Color("#d1aaff")
	OxocarbonMagenta = lipgloss.Color("#ff7eb6")
)

var (
	// Brand shown in the navbar
	BrandStyle = lipgloss.NewStyle().
			Foreground(OxocarbonWhite).
			Background(OxocarbonPurple).
			Padding(0, 1).
			Bold(true)

	// Title style
	TitleStyle = lipgloss.NewStyle().
			Foreground(OxocarbonWhite).
			Background(OxocarbonPurple).
			Padding(0, 1).
			Bold(true)

	// Subtitle style
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(OxocarbonMauve).
			Bold(true)

	// List item with oxocarbon border
	ItemStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(OxocarbonBase02).
			BorderLeft(true).
			PaddingLeft(2).
			PaddingRight(2).
			MarginLeft(3)

	// Selected item with highlighted border
	ItemSelectedStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.ThickBorder()).
				BorderForeground(OxocarbonPurple).
				BorderLeft(true).
				PaddingLeft(2).
				PaddingRight(2).
				MarginLeft(3)

	// Title style with primary foreground
	ItemTitleStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase05).
			Bold(true)

	// Subtitle/metadata style - slightly muted but still readable
	MetadataStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase04)

	// URL/link style
	URLStyle = lipgloss.NewStyle().
			Foreground(OxocarbonCyan).
			Italic(true)

	// Episode count / current episode badge
	BadgeStyle = lipgloss.NewStyle().
			Foreground(OxocarbonPink).
			Bold(true)

	// Section header
	HeaderStyle = lipgloss.NewStyle().
			Foreground(OxocarbonPurple).
			Bold(true).
			Underline(true).
			MarginTop(1).
			MarginBottom(1)

	// Help text style - muted
	HelpStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase03).
			MarginTop(1)

	// Genre badge - pill-shaped tags
	GenreBadgeStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase05).
			Background(OxocarbonBase01).
			Padding(0, 1).
			MarginRight(1)

	// Synopsis style - italic, muted for readability
	SynopsisStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase04).
			Italic(true)

	// Resume button
	ResumeStyle = lipgloss.NewStyle().
			Foreground(OxocarbonWhite).
			Background(OxocarbonGreen).
			Padding(0, 1).
			Bold(true)

	// Errors and failed loads
	ErrorStyle = lipgloss.NewStyle().
			Foreground(OxocarbonRed).
			Bold(true)

	// Footer style for status messages
	FooterStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase05).
			Background(OxocarbonBase01).
			Padding(0, 1)
)
