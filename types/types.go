package types

import "time"

// Collection names in the document store.
const (
	CollectionSettings   = "settings"
	CollectionBlogs      = "blogs"
	CollectionProjects   = "projects"
	CollectionCategories = "categories"
	CollectionUsers      = "users"
)

// ProfileID is the fixed document id of the profile singleton inside
// the settings collection.
const ProfileID = "profile"

// Profile holds the site owner's bio and contact details. Exactly one
// instance exists; it is created on first save and merged thereafter.
type Profile struct {
	Name         string            `json:"name"`
	Tagline      string            `json:"tagline"`
	Bio          string            `json:"bio"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	Location     string            `json:"location"`
	ProfileImage string            `json:"profileImage"`
	Quote        string            `json:"quote"`
	Stats        ProfileStats      `json:"stats"`
	Expertise    []string          `json:"expertise"`
	SocialLinks  map[string]string `json:"socialLinks"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// ProfileStats are the headline numbers shown on the landing page.
type ProfileStats struct {
	YearsExperience   int `json:"yearsExperience"`
	ArticlesPublished int `json:"articlesPublished"`
}

// Article is a blog post. Category references a Category by name, not id.
type Article struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags"`
	CoverImage string    `json:"coverImage"`
	Featured   bool      `json:"featured"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Project types.
const (
	ProjectTypeArticle       = "article"
	ProjectTypeVideo         = "video"
	ProjectTypePodcast       = "podcast"
	ProjectTypeInvestigation = "investigation"
	ProjectTypeDocumentary   = "documentary"
	ProjectTypeOther         = "other"
)

// Project is a portfolio entry. VideoURL is only meaningful when
// Type is ProjectTypeVideo.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Thumbnail   string    `json:"thumbnail"`
	Type        string    `json:"type"`
	VideoURL    string    `json:"videoUrl,omitempty"`
	ExternalURL string    `json:"externalUrl"`
	Client      string    `json:"client"`
	Role        string    `json:"role"`
	Year        string    `json:"year"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Category types.
const (
	CategoryTypeBlog    = "blog"
	CategoryTypeProject = "project"
	CategoryTypeBoth    = "both"
)

// Category tags Articles and Projects. Referencing is by name string;
// renaming or deleting a category does not cascade to existing content.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}
