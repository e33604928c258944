package flow

// BannerURLs are the slides shown at the top of the library.
var BannerURLs = []string{
	"https://s33.picofile.com/file/8484992450/432.png",
	"https://s33.picofile.com/file/8484992534/421.png",
	"https://s33.picofile.com/file/8484992584/455.png",
}

// Carousel cycles through a fixed list of slides.
type Carousel struct {
	slides  []string
	current int
}

// NewCarousel starts at the first slide.
func NewCarousel(slides []string) *Carousel {
	return &Carousel{slides: slides}
}

// Slides returns all slide URLs.
func (c *Carousel) Slides() []string { return c.slides }

// Current returns the index of the visible slide.
func (c *Carousel) Current() int { return c.current }

// Next advances to the following slide, wrapping to the first.
func (c *Carousel) Next() {
	if len(c.slides) == 0 {
		return
	}
	c.current = (c.current + 1) % len(c.slides)
}

// Show jumps to slide i. Out of range values are ignored.
func (c *Carousel) Show(i int) bool {
	if i < 0 || i >= len(c.slides) {
		return false
	}
	c.current = i
	return true
}
