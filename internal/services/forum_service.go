package services

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/store"
	"github.com/microcosm-cc/bluemonday"
)

// AnonymousAuthor is the author name used when the poster has no name.
const AnonymousAuthor = "Anonymous"

// NewPost is the forum post form.
type NewPost struct {
	Title   string `json:"title" validate:"notblank,max=100"`
	Content string `json:"content" validate:"notblank,max=1000"`
	Tags    string `json:"tags"` // Comma-separated
}

// NewReply is the forum reply form.
type NewReply struct {
	Content string `json:"content" validate:"notblank,max=1000"`
}

// ForumServiceProvider defines the interface for forum services.
type ForumServiceProvider interface {
	List() []models.ForumPost
	CreatePost(author models.User, in NewPost) (models.ForumPost, string, error)
	Reply(author models.User, postID string, in NewReply) (models.ForumReply, string, error)
}

// ForumService provides business logic for the peer forum.
type ForumService struct {
	store        *store.Store
	eventService EventServiceProvider
	policy       *bluemonday.Policy
}

// NewForumService creates a new ForumService.
func NewForumService(st *store.Store, eventService EventServiceProvider) *ForumService {
	return &ForumService{store: st, eventService: eventService, policy: bluemonday.StrictPolicy()}
}

// List returns all posts, newest first.
func (s *ForumService) List() []models.ForumPost {
	forum := s.store.Snapshot().Forum
	out := make([]models.ForumPost, 0, len(forum))
	for _, p := range forum {
		out = append(out, p.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// CreatePost validates and publishes a post by author.
func (s *ForumService) CreatePost(author models.User, in NewPost) (models.ForumPost, string, error) {
	in.Title = s.plainText(in.Title)
	in.Content = s.plainText(in.Content)
	if err := check(in, "Please provide both a title and content for your post."); err != nil {
		return models.ForumPost{}, "", err
	}

	post := s.store.AddForumPost(models.ForumPost{
		AuthorID:   author.ID,
		AuthorName: authorName(author),
		Title:      in.Title,
		Content:    in.Content,
		Tags:       splitTags(s.plainText(in.Tags)),
	})
	_ = s.eventService.CreateEvent("forum.post", LevelInfo,
		fmt.Sprintf("%s started a discussion: %s", post.AuthorName, post.Title), strPtr(post.ID))
	return post, "Your post has been shared with the community.", nil
}

// Reply appends a reply by author to postID. A missing post returns
// store.ErrNotFound and changes nothing.
func (s *ForumService) Reply(author models.User, postID string, in NewReply) (models.ForumReply, string, error) {
	in.Content = s.plainText(in.Content)
	if err := check(in, "Please write something before replying."); err != nil {
		return models.ForumReply{}, "", err
	}

	reply, err := s.store.AddForumReply(postID, models.ForumReply{
		AuthorID:   author.ID,
		AuthorName: authorName(author),
		Content:    in.Content,
	})
	if err != nil {
		return models.ForumReply{}, "", err
	}
	_ = s.eventService.CreateEvent("forum.reply", LevelInfo,
		fmt.Sprintf("%s replied to post %s", reply.AuthorName, postID), strPtr(postID))
	return reply, "Your reply has been posted.", nil
}

// plainText strips markup and trims s.
func (s *ForumService) plainText(in string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(in)))
}

func authorName(u models.User) string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return AnonymousAuthor
}
