package models

// ResourceType is the media kind of a wellness resource.
type ResourceType string

const (
	ResourceArticle ResourceType = "article"
	ResourceAudio   ResourceType = "audio"
	ResourceVideo   ResourceType = "video"
	ResourcePodcast ResourceType = "podcast"
)

// ResourceTypes lists the known resource types in display order.
var ResourceTypes = []ResourceType{ResourceArticle, ResourceAudio, ResourceVideo, ResourcePodcast}

// Resource is an entry in the wellness resource library.
type Resource struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Type        ResourceType `json:"type"`
	Category    string       `json:"category"`
	Time        string       `json:"time"` // Display duration, e.g. "15 minutes"
	Description string       `json:"description"`
	URL         string       `json:"url"`
	Tags        []string     `json:"tags"`
}

// Clone returns a copy that shares no slices with r.
func (r Resource) Clone() Resource {
	r.Tags = cloneStrings(r.Tags)
	return r
}
