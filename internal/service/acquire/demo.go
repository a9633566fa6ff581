package acquire

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"ecosort/internal/category"
	"ecosort/internal/dataurl"
	"ecosort/internal/logger"
)

// ErrDemoUnavailable is returned when neither the dataset nor the gallery
// fallback produced an image.
var ErrDemoUnavailable = errors.New("demo image unavailable")

// Rand is the source of the demo's pseudo-random choices.
type Rand interface {
	Intn(n int) int
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a goroutine-safe Rand seeded from the clock.
func NewRand() Rand {
	return &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// ImageFetcher is the part of the backend client the demo needs.
type ImageFetcher interface {
	DemoImages(ctx context.Context, key string) ([]string, error)
	FetchImage(ctx context.Context, rawURL string) (dataurl.DataURL, error)
}

// GalleryImage is a fallback sample hosted outside the backend.
type GalleryImage struct {
	URL      string
	Category category.Category
}

// Gallery holds one external sample per category, used when the backend
// dataset is empty or unreachable.
var Gallery = []GalleryImage{
	{URL: "https://images.unsplash.com/photo-1537084642907-629340c7e59c?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80", Category: category.Plastic},
	{URL: "https://images.unsplash.com/photo-1561503412-852800622772?q=80&w=735&auto=format&fit=crop&ixlib=rb-4.1.0", Category: category.Metal},
	{URL: "https://images.unsplash.com/photo-1644575881028-9f170fd241ed?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80", Category: category.Organic},
	{URL: "https://images.unsplash.com/photo-1585351737354-204ffbbe584f?q=80&w=1172&auto=format&fit=crop&ixlib=rb-4.1.0", Category: category.Paper},
	{URL: "https://images.unsplash.com/photo-1614480858386-d2c746e2c8e3?q=80&w=1180&auto=format&fit=crop&ixlib=rb-4.1.0", Category: category.Glass},
	{URL: "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80", Category: category.Other},
}

// DemoImage is a sample picked for demo mode.
type DemoImage struct {
	Image    dataurl.DataURL
	Category category.Category
	Source   string
	Fallback bool // Came from the gallery instead of the backend dataset
}

// Caption is the preview heading shown while the demo image waits.
func (d *DemoImage) Caption() string {
	return fmt.Sprintf("Demo Image Preview - %s Category", d.Category)
}

// DemoService picks sample images for demo mode.
type DemoService struct {
	fetcher ImageFetcher
	rng     Rand
	gallery []GalleryImage
	logger  *logger.Logger
}

// NewDemoService creates a DemoService using the built-in gallery fallback.
func NewDemoService(fetcher ImageFetcher, rng Rand, logger *logger.Logger) *DemoService {
	return &DemoService{
		fetcher: fetcher,
		rng:     rng,
		gallery: Gallery,
		logger:  logger,
	}
}

// Acquire picks a random dataset category and a random image from it,
// falling back to the gallery when the dataset yields nothing.
func (s *DemoService) Acquire(ctx context.Context) (*DemoImage, error) {
	key := category.DemoKeys[s.rng.Intn(len(category.DemoKeys))]

	images, err := s.fetcher.DemoImages(ctx, key)
	if err != nil {
		s.logger.Warning("Failed to fetch demo images for %s: %v", key, err)
		return s.fromGallery(ctx)
	}
	if len(images) == 0 {
		s.logger.Info("No dataset images for %s, using gallery", key)
		return s.fromGallery(ctx)
	}

	source := images[s.rng.Intn(len(images))]
	img, err := s.fetcher.FetchImage(ctx, source)
	if err != nil {
		s.logger.Warning("Failed to load dataset image %s: %v", source, err)
		return s.fromGallery(ctx)
	}

	return &DemoImage{
		Image:    img,
		Category: category.Parse(key),
		Source:   source,
	}, nil
}

func (s *DemoService) fromGallery(ctx context.Context) (*DemoImage, error) {
	pick := s.gallery[s.rng.Intn(len(s.gallery))]

	img, err := s.fetcher.FetchImage(ctx, pick.URL)
	if err != nil {
		s.logger.Error("Failed to load gallery image %s: %v", pick.URL, err)
		return nil, fmt.Errorf("%w: %v", ErrDemoUnavailable, err)
	}

	return &DemoImage{
		Image:    img,
		Category: pick.Category,
		Source:   pick.URL,
		Fallback: true,
	}, nil
}
