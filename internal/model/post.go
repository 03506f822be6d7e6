package model

import "time"

// Post is an arbitrary JSON object; the blog imposes no schema on it.
type Post map[string]interface{}

// PostPage is one page of posts. Page is the requested page; NextPage is what a "load
// more" request should ask for (the HTML fragment renders it as "page").
type PostPage struct {
	Posts    []Post `json:"posts"`
	Page     int    `json:"page"`
	NextPage int    `json:"next_page"`
}

// PostRecord is the MySQL row backing a Post; Body holds the JSON object verbatim.
type PostRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Body      string    `gorm:"type:json;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostRecord) TableName() string {
	return "posts"
}
