package siteimage

import (
	"context"
	"errors"
	"testing"

	"github.com/festivo/festivo-api/internal/pkg/dataurl"
)

type fakeRepo struct {
	images map[string]*SiteImage
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{images: map[string]*SiteImage{}}
}

func (f *fakeRepo) List(ctx context.Context) ([]*SiteImage, error) {
	var out []*SiteImage
	for _, img := range f.images {
		out = append(out, img)
	}
	return out, nil
}

func (f *fakeRepo) GetByKey(ctx context.Context, key string) (*SiteImage, error) {
	return f.images[key], nil
}

func (f *fakeRepo) Upsert(ctx context.Context, image *SiteImage) (*SiteImage, error) {
	if prev, ok := f.images[image.Key]; ok {
		image.Version = prev.Version + 1
	} else {
		image.Version = 1
	}
	f.images[image.Key] = image
	return image, nil
}

func TestUpsertRejectsUnknownKey(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Upsert(context.Background(), "banner", &UpsertRequest{
		Description: "x",
		Src:         dataurl.Encode("image/png", []byte("img")),
	})
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestUpsertWrapsBarePayload(t *testing.T) {
	svc := NewService(newFakeRepo())

	img, err := svc.Upsert(context.Background(), KeyLogo, &UpsertRequest{
		Description: "logotipo",
		Data:        "aGVsbG8=",
		Type:        "image/png",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !dataurl.IsDataURL(img.Src) {
		t.Errorf("src = %q, want a data URL", img.Src)
	}
	if img.FileType != "image/png" {
		t.Errorf("file type = %q", img.FileType)
	}
	if img.FileSize != 5 {
		t.Errorf("file size = %d, want 5", img.FileSize)
	}
}

func TestUpsertBumpsVersion(t *testing.T) {
	svc := NewService(newFakeRepo())
	req := &UpsertRequest{Description: "home", Src: dataurl.Encode("image/jpeg", []byte("abc"))}

	first, err := svc.Upsert(context.Background(), KeyHome, req)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := svc.Upsert(context.Background(), KeyHome, req)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.Version != first.Version+1 {
		t.Errorf("version %d -> %d, want an increment", first.Version, second.Version)
	}
}

func TestUpsertSizeLimit(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Upsert(context.Background(), KeyAbout, &UpsertRequest{
		Description: "grande demais",
		Src:         dataurl.Encode("image/jpeg", make([]byte, MaxImageBytes+1)),
	})
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
}

func TestUpsertEmptyPayload(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Upsert(context.Background(), KeyAbout, &UpsertRequest{Description: "vazio"})
	if !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("expected ErrEmptyImage, got %v", err)
	}
}

func TestGetByKey(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	if _, err := svc.GetByKey(context.Background(), KeyHome); !errors.Is(err, ErrImageNotFound) {
		t.Fatalf("empty slot: got %v", err)
	}
	if _, err := svc.GetByKey(context.Background(), "nope"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("bad key: got %v", err)
	}

	if _, err := svc.Upsert(context.Background(), KeyHome, &UpsertRequest{
		Description: "home",
		Src:         dataurl.Encode("image/jpeg", []byte("x")),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	img, err := svc.GetByKey(context.Background(), KeyHome)
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if img.Key != KeyHome {
		t.Errorf("key = %q", img.Key)
	}
}
