package adminclient

import (
	"errors"
	"fmt"
	"sort"

	"github.com/festivo/festivo-api/internal/domain/gallery"
	"github.com/festivo/festivo-api/internal/pkg/dataurl"
)

// Upload ceilings enforced before a request leaves the controller. The
// aggregate ceiling keeps the request under what the hosting platform accepts
// for one body; the per-file ceiling is what recompression must get a newly
// added image down to.
const (
	MaxUploadBytes   int64 = 3584 * 1024 // ~3.5MB aggregate
	MaxNewImageBytes int64 = 1536 * 1024 // ~1.5MB per newly added image
)

var (
	ErrUploadTooLarge   = errors.New("combined image payload exceeds the upload limit")
	ErrNewImageTooLarge = errors.New("a newly added image exceeds the per-file upload limit")
	ErrNoSelection      = errors.New("no image at that position")
)

// SelectedImage is one entry of the working set the operator is editing.
type SelectedImage struct {
	Src        string // data URL payload
	Type       string
	Name       string
	Size       int64
	IsExisting bool // present in the snapshot taken when the edit began
}

// EditSession tracks one edit of a gallery item. It captures a snapshot of
// the persisted image identifiers when the item is opened and decides at save
// time whether the update request carries an images field at all: omitted
// when nothing changed (the server then leaves stored images untouched),
// an explicit empty list when the operator removed everything, the full
// working set otherwise. The transport replaces the list wholesale, so there
// is no diff form: any change retransmits every retained image.
type EditSession struct {
	itemID   string
	snapshot []string
	selected []SelectedImage
}

// NewEditSession opens an edit of an existing item, capturing the snapshot
// before any user edits occur.
func NewEditSession(item *gallery.Item) *EditSession {
	s := &EditSession{itemID: item.ID.String()}
	for _, img := range item.Images {
		s.snapshot = append(s.snapshot, img.Src)
		s.selected = append(s.selected, SelectedImage{
			Src:        img.Src,
			Name:       img.Alt,
			Size:       dataurl.DecodedSize(img.Src),
			IsExisting: true,
		})
	}
	return s
}

// NewCreateSession opens a session with no snapshot for a brand-new item.
func NewCreateSession() *EditSession {
	return &EditSession{}
}

// ItemID returns the id under edit, empty for a create session.
func (s *EditSession) ItemID() string { return s.itemID }

// Selected returns the current working set.
func (s *EditSession) Selected() []SelectedImage { return s.selected }

// Add appends an image to the working set.
func (s *EditSession) Add(img SelectedImage) {
	s.selected = append(s.selected, img)
}

// Remove drops the image at position i from the working set.
func (s *EditSession) Remove(i int) error {
	if i < 0 || i >= len(s.selected) {
		return ErrNoSelection
	}
	s.selected = append(s.selected[:i], s.selected[i+1:]...)
	return nil
}

// RemoveAll drops the images at the given positions, all interpreted against
// the working set as currently displayed. Positions are applied highest first
// so earlier removals do not shift the remaining ones.
func (s *EditSession) RemoveAll(indices []int) error {
	sorted := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, i := range sorted {
		if err := s.Remove(i); err != nil {
			return err
		}
	}
	return nil
}

// Unchanged reports whether the working set matches the snapshot: no newly
// added images and the same membership of existing ones, order-independent.
func (s *EditSession) Unchanged() bool {
	existing := make(map[string]int, len(s.selected))
	for _, img := range s.selected {
		if !img.IsExisting {
			return false
		}
		existing[img.Src]++
	}

	if len(s.selected) != len(s.snapshot) {
		return false
	}
	snapshot := make(map[string]int, len(s.snapshot))
	for _, src := range s.snapshot {
		snapshot[src]++
	}
	for src, n := range existing {
		if snapshot[src] != n {
			return false
		}
	}
	return true
}

// ImagePatch builds the images field for the outgoing update request:
//   - empty working set: explicit empty list (clear-all signal)
//   - unchanged: nil, the field is omitted and stored images stay untouched
//   - otherwise: the full working set
func (s *EditSession) ImagePatch() *[]gallery.ImageInput {
	if len(s.selected) == 0 {
		empty := []gallery.ImageInput{}
		return &empty
	}
	if s.Unchanged() {
		return nil
	}

	images := make([]gallery.ImageInput, 0, len(s.selected))
	for _, img := range s.selected {
		images = append(images, gallery.ImageInput{
			Src:        img.Src,
			Type:       img.Type,
			Name:       img.Name,
			Size:       img.Size,
			IsExisting: img.IsExisting,
		})
	}
	return &images
}

// CheckLimits validates the outgoing payload before anything is sent, so the
// operator gets an immediate error instead of a server-side 413 after the
// upload has already run. Only applied when the images field will be sent.
func (s *EditSession) CheckLimits() error {
	patch := s.ImagePatch()
	if patch == nil || len(*patch) == 0 {
		return nil
	}

	var total int64
	for _, img := range s.selected {
		total += img.Size
		if !img.IsExisting && img.Size > MaxNewImageBytes {
			return fmt.Errorf("%w: %s (%d bytes)", ErrNewImageTooLarge, img.Name, img.Size)
		}
	}
	if total > MaxUploadBytes {
		return fmt.Errorf("%w: %d bytes", ErrUploadTooLarge, total)
	}
	return nil
}

// CreateImages returns the working set in request form for a create call.
func (s *EditSession) CreateImages() []gallery.ImageInput {
	images := make([]gallery.ImageInput, 0, len(s.selected))
	for _, img := range s.selected {
		images = append(images, gallery.ImageInput{
			Src:  img.Src,
			Type: img.Type,
			Name: img.Name,
			Size: img.Size,
		})
	}
	return images
}
