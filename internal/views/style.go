package views

import "github.com/JaimeStill/sweep/internal/reports"

// Tone names the display treatment of a report card.
type Tone string

const (
	ToneHigh    Tone = "high"
	ToneMedium  Tone = "medium"
	ToneLow     Tone = "low"
	ToneClean   Tone = "clean"
	ToneUnknown Tone = "unknown"
)

// Style is the presentation of a report card.
type Style struct {
	Tone  Tone   `json:"tone"`
	Color string `json:"color"`
	Label string `json:"label"`
}

var styles = map[Tone]Style{
	ToneHigh:    {Tone: ToneHigh, Color: "red", Label: "High priority"},
	ToneMedium:  {Tone: ToneMedium, Color: "amber", Label: "Medium priority"},
	ToneLow:     {Tone: ToneLow, Color: "green", Label: "Low priority"},
	ToneClean:   {Tone: ToneClean, Color: "blue", Label: "Cleaned"},
	ToneUnknown: {Tone: ToneUnknown, Color: "grey", Label: "Unknown priority"},
}

var priorityTones = map[reports.Priority]Tone{
	reports.PriorityHigh:   ToneHigh,
	reports.PriorityMedium: ToneMedium,
	reports.PriorityLow:    ToneLow,
}

// StyleFor returns the card style of r. Clean reports ignore priority.
func StyleFor(r reports.Report) Style {
	if r.IsClean {
		return styles[ToneClean]
	}
	if tone, ok := priorityTones[r.Priority]; ok {
		return styles[tone]
	}
	return styles[ToneUnknown]
}
