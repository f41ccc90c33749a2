package constant

// Site conventions shared by the content loaders and the upload tool.
const (
	// ContentDir is the directory, relative to the site root, holding every collection.
	ContentDir = "src/content"

	// WatchURLPrefix is prepended to a hosted video id to form its public page URL.
	WatchURLPrefix = "https://www.youtube.com/watch?v="

	// DefaultCover is the cover image written into newly generated audio entries.
	DefaultCover = "cover-images/defaultCover.jpg"

	// AboutPostTitle marks the post that is always pinned to the top of the post list.
	AboutPostTitle = "当団について"
)
