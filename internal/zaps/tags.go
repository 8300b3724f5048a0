package zaps

import "github.com/nbd-wtf/go-nostr"

// FirstTag returns the first tag named name. Later tags with the same name are ignored.
func FirstTag(tags nostr.Tags, name string) (nostr.Tag, bool) {
	for _, tag := range tags {
		if len(tag) > 0 && tag[0] == name {
			return tag, true
		}
	}
	return nil, false
}

// TagValue returns the second element of the first tag named name
func TagValue(tags nostr.Tags, name string) (string, bool) {
	tag, ok := FirstTag(tags, name)
	if !ok || len(tag) < 2 {
		return "", false
	}
	return tag[1], true
}
