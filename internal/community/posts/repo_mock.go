package posts

import (
	"context"
	"sort"
	"time"
)

type repoMock struct {
	posts     map[int]*Post
	comments  map[int]*Comment
	reactions map[int]map[int]bool

	nextPostID    int
	nextCommentID int
}

// NewMockRepo is to be used for testing purposes
func NewMockRepo() *repoMock {
	return &repoMock{
		posts:         make(map[int]*Post),
		comments:      make(map[int]*Comment),
		reactions:     make(map[int]map[int]bool),
		nextPostID:    1,
		nextCommentID: 1,
	}
}

func (m *repoMock) counts(postID int) (reactions, comments int) {
	reactions = len(m.reactions[postID])
	for _, c := range m.comments {
		if c.PostID == postID {
			comments++
		}
	}
	return reactions, comments
}

func (m *repoMock) withCounts(post *Post) *Post {
	c := *post
	c.ReactionCount, c.CommentCount = m.counts(post.ID)
	return &c
}

func (m *repoMock) Create(_ context.Context, userID int, content string, imageURL *string) (*Post, error) {
	post := &Post{
		ID:        m.nextPostID,
		UserID:    userID,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: time.Now(),
	}
	m.posts[post.ID] = post
	m.nextPostID++
	return m.withCounts(post), nil
}

func (m *repoMock) List(_ context.Context, limit int) ([]Post, error) {
	posts := make([]Post, 0, len(m.posts))
	for _, post := range m.posts {
		posts = append(posts, *m.withCounts(post))
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ID > posts[j].ID
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (m *repoMock) Get(_ context.Context, id int) (*Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return m.withCounts(post), nil
}

func (m *repoMock) Delete(_ context.Context, id, userID int) error {
	post, ok := m.posts[id]
	if !ok || post.UserID != userID {
		return ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *repoMock) ToggleReaction(_ context.Context, postID, userID int) (bool, error) {
	if m.reactions[postID] == nil {
		m.reactions[postID] = make(map[int]bool)
	}
	if m.reactions[postID][userID] {
		delete(m.reactions[postID], userID)
		return false, nil
	}
	m.reactions[postID][userID] = true
	return true, nil
}

func (m *repoMock) AddComment(_ context.Context, postID, userID int, content string) (*Comment, error) {
	comment := &Comment{
		ID:        m.nextCommentID,
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	m.comments[comment.ID] = comment
	m.nextCommentID++
	return comment, nil
}

func (m *repoMock) ListComments(_ context.Context, postID int) ([]Comment, error) {
	comments := make([]Comment, 0)
	for _, comment := range m.comments {
		if comment.PostID == postID {
			comments = append(comments, *comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

func (m *repoMock) DeleteComment(_ context.Context, commentID, userID int) error {
	comment, ok := m.comments[commentID]
	if !ok || comment.UserID != userID {
		return ErrCommentNotFound
	}
	delete(m.comments, commentID)
	return nil
}
