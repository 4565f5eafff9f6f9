// Package publish uploads a built site to a Cloud Storage bucket.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
)

// Object is one file of the built site and where it goes in the bucket
type Object struct {
	Source       string
	Name         string
	ContentType  string
	CacheControl string
}

// Report summarizes a publish run
type Report struct {
	Uploaded int
	Deleted  int
}

// Publisher writes objects to a bucket
type Publisher struct {
	client *storage.Client
	bucket *storage.BucketHandle
	logger *zap.Logger
}

// New connects to Cloud Storage with application default credentials
func New(ctx context.Context, bucketName string, logger *zap.Logger) (*Publisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Publisher{client: client, bucket: client.Bucket(bucketName), logger: logger}, nil
}

// Close releases the storage client
func (p *Publisher) Close() error {
	return p.client.Close()
}

// Publish uploads every file under dir. With prune set, objects in the
// bucket that are not part of the site are deleted afterwards.
func (p *Publisher) Publish(ctx context.Context, dir string, prune bool) (*Report, error) {
	objects, err := Plan(dir)
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("nothing to publish in %s", dir)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, obj := range objects {
		g.Go(func() error {
			if err := uploadFile(gctx, p.bucket, obj); err != nil {
				return fmt.Errorf("failed to upload %s: %w", obj.Name, err)
			}
			p.logger.Debug("Uploaded object", zap.String("name", obj.Name))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Uploaded: len(objects)}
	if !prune {
		return report, nil
	}

	existing, err := p.list(ctx)
	if err != nil {
		return report, err
	}
	for _, name := range Stale(existing, objects) {
		if err := p.bucket.Object(name).Delete(ctx); err != nil {
			p.logger.Warn("Failed to delete stale object", zap.String("name", name), zap.Error(err))
			continue
		}
		report.Deleted++
	}

	p.logger.Info("Site published", zap.Int("uploaded", report.Uploaded), zap.Int("deleted", report.Deleted))
	return report, nil
}

func (p *Publisher) list(ctx context.Context) ([]string, error) {
	var names []string
	it := p.bucket.Objects(ctx, nil)
	for {
		obj, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating objects: %w", err)
		}
		names = append(names, obj.Name)
	}
	return names, nil
}

// Plan lists the objects for every regular file under dir, in natural order
func Plan(dir string) ([]Object, error) {
	var objects []Object
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		name := ObjectName(rel)
		objects = append(objects, Object{
			Source:       p,
			Name:         name,
			ContentType:  ContentType(name),
			CacheControl: CacheControl(name),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	sort.Slice(objects, func(i, j int) bool {
		return naturalLess(objects[i].Name, objects[j].Name)
	})
	return objects, nil
}

// ObjectName converts a path relative to the site root into a bucket key
func ObjectName(rel string) string {
	name := strings.TrimPrefix(filepath.ToSlash(rel), "/")
	if idx := strings.Index(name, "?"); idx != -1 {
		name = name[:idx]
	}
	return name
}

// ContentType guesses the MIME type from the object's extension
func ContentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// CacheControl keeps pages and the feed fresh and lets assets be cached
func CacheControl(name string) string {
	switch path.Ext(name) {
	case ".html", ".json":
		return "no-cache"
	default:
		return "public, max-age=3600"
	}
}

// Stale returns the existing object names that are not in objects
func Stale(existing []string, objects []Object) []string {
	keep := make(map[string]bool, len(objects))
	for _, obj := range objects {
		keep[obj.Name] = true
	}
	var stale []string
	for _, name := range existing {
		if !keep[name] {
			stale = append(stale, name)
		}
	}
	sort.Slice(stale, func(i, j int) bool {
		return naturalLess(stale[i], stale[j])
	})
	return stale
}

func uploadFile(ctx context.Context, bucket *storage.BucketHandle, obj Object) error {
	data, err := os.ReadFile(obj.Source)
	if err != nil {
		return fmt.Errorf("os.ReadFile: %w", err)
	}

	writer := bucket.Object(obj.Name).NewWriter(ctx)
	writer.ContentType = obj.ContentType
	writer.CacheControl = obj.CacheControl

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("Writer.Write: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %w", err)
	}
	return nil
}
