package store

import "github.com/isdelr/mindcare-be/internal/models"

// ForumPost looks up a forum post by id.
func (s *Store) ForumPost(id string) (models.ForumPost, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.snap.Forum {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return models.ForumPost{}, false
}

// AddForumPost appends p with a generated id, the current time as its timestamp
// and an empty reply list.
func (s *Store) AddForumPost(p models.ForumPost) models.ForumPost {
	s.mu.Lock()
	p = p.Clone()
	p.ID = s.postIDs.next(func(id string) bool {
		for _, existing := range s.snap.Forum {
			if existing.ID == id {
				return true
			}
		}
		return false
	})
	p.Timestamp = s.now().UTC()
	p.Replies = []models.ForumReply{}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	next := make([]models.ForumPost, len(s.snap.Forum), len(s.snap.Forum)+1)
	copy(next, s.snap.Forum)
	s.snap.Forum = append(next, p)
	s.mu.Unlock()

	s.publish(Change{Collection: CollectionForum, Op: OpCreate, ID: p.ID})
	return p.Clone()
}

// AddForumReply appends r to the end of the matching post's replies, assigning
// a generated id and the current time.
func (s *Store) AddForumReply(postID string, r models.ForumReply) (models.ForumReply, error) {
	s.mu.Lock()
	idx := -1
	for i, p := range s.snap.Forum {
		if p.ID == postID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.ForumReply{}, ErrNotFound
	}

	r.ID = s.replyIDs.next(func(id string) bool {
		for _, p := range s.snap.Forum {
			for _, existing := range p.Replies {
				if existing.ID == id {
					return true
				}
			}
		}
		return false
	})
	r.Timestamp = s.now().UTC()

	post := s.snap.Forum[idx].Clone()
	post.Replies = append(post.Replies, r)
	next := make([]models.ForumPost, len(s.snap.Forum))
	copy(next, s.snap.Forum)
	next[idx] = post
	s.snap.Forum = next
	s.mu.Unlock()

	s.publish(Change{Collection: CollectionForum, Op: OpReply, ID: r.ID, ParentID: postID})
	return r, nil
}
