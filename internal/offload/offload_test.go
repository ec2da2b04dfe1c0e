package offload

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumni/internal/alumni"
	"alumni/internal/cloudinary"
	"alumni/internal/metrics"
	"alumni/internal/queue"
)

type fakeUploader struct {
	calls []string
	err   error
}

func (f *fakeUploader) UploadDataURL(_ context.Context, dataURL, publicID string) (*cloudinary.UploadResult, error) {
	f.calls = append(f.calls, publicID)
	if f.err != nil {
		return nil, f.err
	}
	return &cloudinary.UploadResult{PublicID: publicID, SecureURL: "https://cdn.test/" + publicID + ".png"}, nil
}

func seed(t *testing.T, picture string) (*alumni.Service, alumni.Record) {
	t.Helper()
	svc := alumni.NewService(alumni.NewMemoryRepository(), nil, nil, nil)
	rec, err := svc.Create(context.Background(), alumni.Record{
		FirstName: "Asha", LastName: "Rao", Email: "a@x.com", Phone: "1",
		Occupation:     alumni.Occupation{Field: "engineer", SubField: "IT"},
		AttendingMeet:  alumni.AttendingYes,
		ProfilePicture: picture,
	})
	require.NoError(t, err)
	return svc, rec
}

func TestHandleUploadsInlinePicture(t *testing.T) {
	svc, rec := seed(t, "data:image/png;base64,AAAA")
	up := &fakeUploader{}
	m := metrics.New(prometheus.NewRegistry())
	p := New(svc, up, m, nil)

	msg := queue.Message{Type: queue.TypeAlumniCreated, Body: []byte(rec.ID)}
	require.NoError(t, p.Handle(context.Background(), msg))

	got, err := svc.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/"+rec.ID+".png", got.ProfilePicture)
	assert.Equal(t, []string{rec.ID}, up.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Pictures.WithLabelValues("uploaded")))

	// already hosted: second delivery is a no-op
	require.NoError(t, p.Handle(context.Background(), msg))
	assert.Len(t, up.calls, 1)
}

func TestHandleSkipsOtherMessages(t *testing.T) {
	svc, _ := seed(t, "data:image/png;base64,AAAA")
	up := &fakeUploader{}
	p := New(svc, up, nil, nil)

	require.NoError(t, p.Handle(context.Background(), queue.Message{Type: "other", Body: []byte("x")}))
	assert.Empty(t, up.calls)
}

func TestHandleErrors(t *testing.T) {
	svc, rec := seed(t, "data:image/png;base64,AAAA")
	p := New(svc, &fakeUploader{err: errors.New("boom")}, nil, nil)

	err := p.Handle(context.Background(), queue.Message{Type: queue.TypeAlumniCreated, Body: []byte(rec.ID)})
	assert.ErrorContains(t, err, "boom")

	err = p.Handle(context.Background(), queue.Message{Type: queue.TypeAlumniCreated, Body: []byte("missing")})
	assert.ErrorIs(t, err, alumni.ErrNotFound)

	got, _ := svc.Get(context.Background(), rec.ID)
	assert.True(t, got.HasInlinePicture())
}

func TestRunDrainsQueue(t *testing.T) {
	q := queue.NewInMemory(4)
	svc, rec := seed(t, "data:image/jpeg;base64,BBBB")
	up := &fakeUploader{}
	p := New(svc, up, nil, nil)

	require.NoError(t, q.Publish(context.Background(), queue.Message{Type: queue.TypeAlumniCreated, Body: []byte(rec.ID)}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, q) }()

	require.Eventually(t, func() bool {
		got, err := svc.Get(context.Background(), rec.ID)
		return err == nil && !got.HasInlinePicture()
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
