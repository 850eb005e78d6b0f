package tabs

import "strings"

var channelTabLabels = map[string]string{
	"videos":         "Videos",
	"playlists":      "Playlists",
	"popular_tracks": "Popular tracks",
	"tracks":         "Tracks",
	"albums":         "Albums",
	"reposts":        "Reposts",
	"events":         "Events",
}

// ChannelTabs maps the tab names reported by a channel to their labels.
// Unknown names fall back to Videos. Case, spaces and dashes are ignored.
func ChannelTabs(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, channelTabLabel(name))
	}
	return out
}

func channelTabLabel(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if label, ok := channelTabLabels[key]; ok {
		return label
	}
	return channelTabLabels["videos"]
}
