package scrim

import "time"

// announceTTL is how long a live-region element stays in the document.
// Long enough for assistive technology to pick the text up, short enough
// not to accumulate.
const announceTTL = time.Second

// Announce creates a transient polite live-region element carrying the
// message, appends it to the document body, and removes it again after
// about a second. This is the only channel the toolkit uses to talk to
// assistive technology.
func Announce(doc *Document, sched Scheduler, message string) {
	if doc == nil || message == "" {
		return
	}
	region := NewElement(KindText).SetText(message)
	region.SetAttr("role", "status")
	region.SetAttr("aria-live", "polite")
	region.SetStyleProp("position", "absolute")
	region.SetStyleProp("clip", "rect(0,0,0,0)")
	doc.Body().Append(region)
	sched.AfterFunc(announceTTL, region.Detach)
}
