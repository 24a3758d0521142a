package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/estatehub/listings-api/internal/core/domain"
	"github.com/estatehub/listings-api/internal/core/ports"
)

type stubPropertyRepo struct {
	byID       map[string]*domain.Property
	order      []string
	nextID     int
	lastFilter domain.PropertyFilter
}

func newStubPropertyRepo() *stubPropertyRepo {
	return &stubPropertyRepo{byID: make(map[string]*domain.Property)}
}

func cloneProperty(p *domain.Property) *domain.Property {
	if p == nil {
		return nil
	}
	clone := *p
	clone.GalleryImages = append([]string(nil), p.GalleryImages...)
	return &clone
}

func (r *stubPropertyRepo) Create(_ context.Context, p *domain.Property) (*domain.Property, error) {
	r.nextID++
	copy := cloneProperty(p)
	copy.ID = "prop_" + strconv.Itoa(r.nextID)
	r.byID[copy.ID] = cloneProperty(copy)
	r.order = append(r.order, copy.ID)
	return cloneProperty(copy), nil
}

func (r *stubPropertyRepo) FindByID(_ context.Context, id string) (*domain.Property, error) {
	if p, ok := r.byID[id]; ok {
		return cloneProperty(p), nil
	}
	return nil, domain.ErrPropertyNotFound
}

func (r *stubPropertyRepo) Find(_ context.Context, filter domain.PropertyFilter) ([]*domain.Property, error) {
	r.lastFilter = filter
	out := make([]*domain.Property, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneProperty(r.byID[id]))
	}
	return out, nil
}

func (r *stubPropertyRepo) Replace(_ context.Context, id string, p *domain.Property) (*domain.Property, error) {
	if _, ok := r.byID[id]; !ok {
		return nil, domain.ErrPropertyNotFound
	}
	copy := cloneProperty(p)
	copy.ID = id
	r.byID[id] = cloneProperty(copy)
	return cloneProperty(copy), nil
}

func (r *stubPropertyRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrPropertyNotFound
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type stubImageStore struct {
	saveErr error
}

func (s *stubImageStore) Save(fh *multipart.FileHeader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	return "stored-" + fh.Filename, nil
}

func (s *stubImageStore) SaveAll(files []*multipart.FileHeader) ([]string, error) {
	names := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := s.Save(fh)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

type stubViewCounter struct {
	counts map[string]int64
	err    error
}

func (v *stubViewCounter) Increment(_ context.Context, id string) (int64, error) {
	if v.err != nil {
		return 0, v.err
	}
	if v.counts == nil {
		v.counts = make(map[string]int64)
	}
	v.counts[id]++
	return v.counts[id], nil
}

type stubThumbnailQueue struct {
	enqueued []string
}

func (q *stubThumbnailQueue) Enqueue(filename string) {
	q.enqueued = append(q.enqueued, filename)
}

func newTestPropertyService(repo *stubPropertyRepo, images *stubImageStore, views *stubViewCounter) (*PropertyService, *stubThumbnailQueue) {
	thumbs := &stubThumbnailQueue{}
	var counter ports.ViewCounter
	if views != nil {
		counter = views
	}
	svc := NewPropertyService(repo, images, counter, thumbs, "http://localhost:8080", zerolog.Nop())
	return svc, thumbs
}

func fileHeader(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name}
}

func createTestProperty(t *testing.T, svc *PropertyService) *domain.Property {
	t.Helper()
	price := 500000.0
	created, err := svc.Create(context.Background(), ports.PropertyFields{
		ProjectName: "Lakeview",
		BuilderName: "Acme Builders",
		Location:    "Austin",
		Price:       &price,
		Description: "Lakefront homes",
		Highlights:  "Pool, gym",
	}, ports.PropertyUploads{
		MainImage:     fileHeader("main.jpg"),
		GalleryImages: []*multipart.FileHeader{fileHeader("g1.jpg"), fileHeader("g2.jpg")},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return created
}

func TestPropertyService_Create_RequiresMainImage(t *testing.T) {
	repo := newStubPropertyRepo()
	svc, _ := newTestPropertyService(repo, &stubImageStore{}, nil)

	_, err := svc.Create(context.Background(), ports.PropertyFields{ProjectName: "Lakeview"}, ports.PropertyUploads{})
	if !errors.Is(err, domain.ErrMainImageRequired) {
		t.Fatalf("expected ErrMainImageRequired, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("rejected create mutated the store")
	}
}

func TestPropertyService_Create_StoresAndRewrites(t *testing.T) {
	repo := newStubPropertyRepo()
	svc, thumbs := newTestPropertyService(repo, &stubImageStore{}, nil)

	created := createTestProperty(t, svc)

	if created.MainImage != "http://localhost:8080/uploads/stored-main.jpg" {
		t.Fatalf("main image not rewritten: %s", created.MainImage)
	}
	if len(created.GalleryImages) != 2 || created.GalleryImages[0] != "http://localhost:8080/uploads/stored-g1.jpg" {
		t.Fatalf("gallery not rewritten: %v", created.GalleryImages)
	}

	// The store keeps bare filenames, only the returned copy carries URLs.
	stored := repo.byID[created.ID]
	if stored.MainImage != "stored-main.jpg" {
		t.Fatalf("store holds rewritten URL: %s", stored.MainImage)
	}

	if len(thumbs.enqueued) != 3 {
		t.Fatalf("expected 3 thumbnail jobs, got %d", len(thumbs.enqueued))
	}
}

func TestPropertyService_Create_UploadFailure(t *testing.T) {
	repo := newStubPropertyRepo()
	svc, _ := newTestPropertyService(repo, &stubImageStore{saveErr: domain.ErrFileTooLarge}, nil)

	price := 100.0
	_, err := svc.Create(context.Background(), ports.PropertyFields{Price: &price}, ports.PropertyUploads{
		MainImage: fileHeader("huge.jpg"),
	})
	if !errors.Is(err, domain.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("failed upload still created a record")
	}
}

func TestPropertyService_Get_CountsViews(t *testing.T) {
	repo := newStubPropertyRepo()
	views := &stubViewCounter{}
	svc, _ := newTestPropertyService(repo, &stubImageStore{}, views)

	created := createTestProperty(t, svc)

	p, n, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 view, got %d", n)
	}
	if p.MainImage != created.MainImage {
		t.Fatalf("get did not rewrite main image: %s", p.MainImage)
	}

	if _, n, _ = svc.Get(context.Background(), created.ID); n != 2 {
		t.Fatalf("expected 2 views, got %d", n)
	}
}

func TestPropertyService_Get_ViewCounterFailureIsBestEffort(t *testing.T) {
	repo := newStubPropertyRepo()
	views := &stubViewCounter{err: errors.New("redis down")}
	svc, _ := newTestPropertyService(repo, &stubImageStore{}, views)

	created := createTestProperty(t, svc)

	p, n, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get should not fail on counter error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 views on counter failure, got %d", n)
	}
	if p == nil {
		t.Fatalf("expected property")
	}
}

func TestPropertyService_Get_NotFound(t *testing.T) {
	repo := newStubPropertyRepo()
	svc, _ := newTestPropertyService(repo, &stubImageStore{}, nil)

	if _, _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
}

func TestPropertyService_Update_PartialMerge(t *testing.T) {
	repo := newStubPropertyRepo()
	svc, _ := newTestPropertyService(repo, &stubImageStore{}, nil)

	created := createTestProperty(t, svc)

	newPrice := 650000.0
	updated, err := svc.Update(context.Background(), created.ID, ports.PropertyFields{
		Location: "Dallas",
		Price:    &newPrice,
	}, ports.PropertyUploads{})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Location != "Dallas" || updated.Price != 650000 {
		t.Fatalf("provided fields not applied: %+v", updated)
	}
	if updated.ProjectName != "Lakeview" || updated.Highlights != "Pool, gym" {
		t.Fatalf("absent fields were not kept: %+v", updated)
	}
	if updated.MainImage != created.MainImage {
		t.Fatalf("main image changed without a new upload: %s", updated.MainImage)
	}
}

func TestPropertyService_Update_EmptyFieldSetIsNoop(t *testing.T) {
	repo := newStubPropertyRepo()
	svc, _ := newTestPropertyService(repo, &stubImageStore{}, nil)

	created := createTestProperty(t, svc)
	before := cloneProperty(repo.byID[created.ID])

	if _, err := svc.Update(context.Background(), created.ID, ports.PropertyFields{}, ports.PropertyUploads{}); err != nil {
		t.Fatalf("empty update failed: %v", err)
	}

	after := repo.byID[created.ID]
	if after.ProjectName != before.ProjectName || after.BuilderName != before.BuilderName ||
		after.Location != before.Location || after.Price != before.Price ||
		after.Description != before.Description || after.Highlights != before.Highlights ||
		after.MainImage != before.MainImage || len(after.GalleryImages) != len(before.GalleryImages) {
		t.Fatalf("empty update changed the record: %+v vs %+v", after, before)
	}
}

func TestPropertyService_Update_FilesReplaceNotMerge(t *testing.T) {
	repo := newStubPropertyRepo()
	svc, _ := newTestPropertyService(repo, &stubImageStore{}, nil)

	created := createTestProperty(t, svc)

	updated, err := svc.Update(context.Background(), created.ID, ports.PropertyFields{}, ports.PropertyUploads{
		GalleryImages: []*multipart.FileHeader{fileHeader("new1.jpg")},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if len(updated.GalleryImages) != 1 || updated.GalleryImages[0] != "http://localhost:8080/uploads/stored-new1.jpg" {
		t.Fatalf("gallery was merged instead of replaced: %v", updated.GalleryImages)
	}
}

func TestPropertyService_Update_NotFound(t *testing.T) {
	repo := newStubPropertyRepo()
	svc, _ := newTestPropertyService(repo, &stubImageStore{}, nil)

	if _, err := svc.Update(context.Background(), "missing", ports.PropertyFields{}, ports.PropertyUploads{}); !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
}

func TestPropertyService_Delete_IdempotentFailure(t *testing.T) {
	repo := newStubPropertyRepo()
	svc, _ := newTestPropertyService(repo, &stubImageStore{}, nil)

	created := createTestProperty(t, svc)

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound after delete, got %v", err)
	}
	// Second delete fails cleanly, it does not crash or succeed.
	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound on repeat delete, got %v", err)
	}
}

func TestPropertyService_List_PassesFilterAndRewrites(t *testing.T) {
	repo := newStubPropertyRepo()
	svc, _ := newTestPropertyService(repo, &stubImageStore{}, nil)

	createTestProperty(t, svc)

	min, max := 400000.0, 600000.0
	results, err := svc.List(context.Background(), domain.PropertyFilter{
		Location: "austin",
		MinPrice: &min,
		MaxPrice: &max,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].MainImage != "http://localhost:8080/uploads/stored-main.jpg" {
		t.Fatalf("list did not rewrite URLs: %s", results[0].MainImage)
	}

	if repo.lastFilter.Location != "austin" || repo.lastFilter.MinPrice == nil || *repo.lastFilter.MinPrice != 400000 {
		t.Fatalf("filter not passed through: %+v", repo.lastFilter)
	}
}
