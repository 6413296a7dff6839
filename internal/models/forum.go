package models

import "time"

// ForumPost is a peer forum thread. AuthorName is captured when the post is written
// and is not updated if the author is later renamed.
type ForumPost struct {
	ID         string       `json:"id"`
	AuthorID   string       `json:"authorId"`
	AuthorName string       `json:"authorName"`
	Title      string       `json:"title"`
	Content    string       `json:"content"`
	Tags       []string     `json:"tags"`
	Timestamp  time.Time    `json:"timestamp"`
	Replies    []ForumReply `json:"replies"`
}

// ForumReply is an answer appended to a ForumPost.
type ForumReply struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// Clone returns a copy that shares no slices with p.
func (p ForumPost) Clone() ForumPost {
	p.Tags = cloneStrings(p.Tags)
	replies := make([]ForumReply, len(p.Replies))
	copy(replies, p.Replies)
	p.Replies = replies
	return p
}
