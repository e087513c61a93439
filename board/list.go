package board

import (
	"context"
	"sort"
	"strings"

	"github.com/meemong/shampooroom/models"
	"github.com/meemong/shampooroom/query"
)

// CategoryTab is a feed tab. POPULAR is not a server filter: it requests the
// unfiltered feed and re-sorts the fetched items client-side.
type CategoryTab string

const (
	TabFree      CategoryTab = "FREE"
	TabPopular   CategoryTab = "POPULAR"
	TabEducation CategoryTab = "EDUCATION"
	TabProduct   CategoryTab = "PRODUCT"
	TabMarket    CategoryTab = "MARKET"
)

// FilterTab narrows the feed to the viewer's own, commented, liked, or
// region-matched posts.
type FilterTab string

const (
	FilterNone      FilterTab = "NONE"
	FilterMine      FilterTab = "MINE"
	FilterCommented FilterTab = "COMMENTED"
	FilterLiked     FilterTab = "LIKED"
	FilterRegion    FilterTab = "REGION"
)

// ListSession is one browsing session over the feed: the active tabs plus the
// paginated query they select. Changing a tab rebinds the session to the
// matching cache key; previously fetched tabs stay cached.
type ListSession struct {
	board    *Board
	category CategoryTab
	filter   FilterTab
	region   string
	pages    *query.Pages[models.Post]
}

// NewListSession opens a feed session on the given tabs. region is the raw
// comma-separated region input, only consulted for FilterRegion.
func (b *Board) NewListSession(category CategoryTab, filter FilterTab, region string) *ListSession {
	s := &ListSession{board: b, category: category, filter: filter, region: region}
	s.rebuild()
	return s
}

// SetCategory switches the category tab.
func (s *ListSession) SetCategory(category CategoryTab) {
	s.category = category
	s.rebuild()
}

// SetFilter switches the filter tab.
func (s *ListSession) SetFilter(filter FilterTab) {
	s.filter = filter
	s.rebuild()
}

// SetRegion replaces the region input.
func (s *ListSession) SetRegion(region string) {
	s.region = region
	s.rebuild()
}

func (s *ListSession) addresses() []string {
	if s.filter != FilterRegion {
		return nil
	}
	var addresses []string
	for _, part := range strings.Split(s.region, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			addresses = append(addresses, trimmed)
		}
	}
	return addresses
}

func (s *ListSession) rebuild() {
	addresses := s.addresses()
	key := query.Key(keyPosts, string(s.category), string(s.filter), strings.Join(addresses, ","))
	s.pages = query.NewPages(s.board.cache, key, s.board.limit, s.fetchPage)
}

func (s *ListSession) fetchPage(ctx context.Context, cursor string, limit int) (models.Page[models.Post], error) {
	boolPtr := func(b bool) *bool { return &b }

	q := models.ListPostsQuery{
		Cursor:    cursor,
		Limit:     limit,
		Addresses: s.addresses(),
	}
	if s.category != TabPopular {
		q.Category = models.Category(s.category)
	}
	switch s.filter {
	case FilterMine:
		q.IsMine = boolPtr(true)
	case FilterLiked:
		q.IsLiked = boolPtr(true)
	case FilterCommented:
		q.IsRead = boolPtr(true)
	}
	return s.board.api.ListPosts(ctx, q)
}

// Posts returns the items to display. For POPULAR the concatenated pages are
// re-sorted by like count descending on a copy; ties keep arrival order and
// the cached pages are never mutated.
func (s *ListSession) Posts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.pages.Items(ctx)
	if err != nil {
		return nil, err
	}
	if s.category == TabPopular {
		sorted := make([]models.Post, len(posts))
		copy(sorted, posts)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].LikeCount > sorted[j].LikeCount
		})
		return sorted, nil
	}
	return posts, nil
}

// HasNextPage reports whether more of the feed can be fetched.
func (s *ListSession) HasNextPage(ctx context.Context) (bool, error) {
	return s.pages.HasNextPage(ctx)
}

// FetchNextPage appends the next feed page; a no-op while one is in flight or
// at the end of the stream.
func (s *ListSession) FetchNextPage(ctx context.Context) error {
	return s.pages.FetchNext(ctx)
}

// Open fires the view and read beacons for a clicked post, fire-and-forget,
// before the caller navigates to the detail view. Beacon failures never block
// the navigation.
func (s *ListSession) Open(ctx context.Context, post models.Post) {
	s.board.tracker.View(ctx, post.ID, s.board.api.MarkView)
	s.board.tracker.Read(ctx, post.ID, false, s.board.api.MarkRead)
}
