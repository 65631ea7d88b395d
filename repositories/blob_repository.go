package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mreimer702/Rettnar/logger"
)

// ErrBlobStoreDisabled: no hay almacenamiento de archivos configurado
var ErrBlobStoreDisabled = errors.New("file uploads are not enabled")

// BlobRepository guarda los archivos de imágenes subidos
type BlobRepository interface {
	Enabled() bool
	Put(ctx context.Context, key, contentType string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// ---------- Sin almacenamiento ----------

type noopBlobRepository struct{}

// NewNoopBlobRepository se usa con BLOB_STORE=none: solo se aceptan imágenes por URL
func NewNoopBlobRepository() BlobRepository {
	return noopBlobRepository{}
}

// Enabled devuelve false: no hay store configurado
func (noopBlobRepository) Enabled() bool { return false }

// Put falla siempre con ErrBlobStoreDisabled
func (noopBlobRepository) Put(context.Context, string, string, io.Reader) error {
	return ErrBlobStoreDisabled
}

// Open falla siempre con ErrBlobStoreDisabled
func (noopBlobRepository) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, ErrBlobStoreDisabled
}

// Delete falla siempre con ErrBlobStoreDisabled
func (noopBlobRepository) Delete(context.Context, string) error {
	return ErrBlobStoreDisabled
}

// ---------- MongoDB GridFS ----------

// gridFSBlobRepository comparte un único gridfs.Bucket entre requests.
// Los deadlines del bucket son estado compartido: solo se tocan bajo mu y se
// limpian al abrir el stream. El resto de la operación usa el deadline del stream.
type gridFSBlobRepository struct {
	mu     sync.Mutex
	bucket *gridfs.Bucket
}

// NewGridFSBlobRepository guarda los archivos en el bucket GridFS por defecto ("fs")
func NewGridFSBlobRepository(db *mongo.Database) (BlobRepository, error) {
	bucket, err := gridfs.NewBucket(db)
	if err != nil {
		return nil, fmt.Errorf("failed to open GridFS bucket: %w", err)
	}
	return &gridFSBlobRepository{bucket: bucket}, nil
}

// Enabled devuelve true
func (r *gridFSBlobRepository) Enabled() bool { return true }

// Put usa la clave como _id del archivo en GridFS
func (r *gridFSBlobRepository) Put(ctx context.Context, key, contentType string, data io.Reader) error {
	dl, hasDeadline := ctx.Deadline()
	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})

	r.mu.Lock()
	if hasDeadline {
		_ = r.bucket.SetWriteDeadline(dl)
	}
	stream, err := r.bucket.OpenUploadStreamWithID(key, key, opts)
	_ = r.bucket.SetWriteDeadline(time.Time{})
	r.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to open upload stream: %w", err)
	}

	if hasDeadline {
		if err := stream.SetWriteDeadline(dl); err != nil {
			_ = stream.Abort()
			return err
		}
	}
	if _, err := io.Copy(stream, data); err != nil {
		_ = stream.Abort()
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return stream.Close()
}

// Open abre el archivo cuyo _id es la clave
func (r *gridFSBlobRepository) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	dl, hasDeadline := ctx.Deadline()

	r.mu.Lock()
	if hasDeadline {
		_ = r.bucket.SetReadDeadline(dl)
	}
	stream, err := r.bucket.OpenDownloadStream(key)
	_ = r.bucket.SetReadDeadline(time.Time{})
	r.mu.Unlock()
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if hasDeadline {
		if err := stream.SetReadDeadline(dl); err != nil {
			_ = stream.Close()
			return nil, err
		}
	}
	return stream, nil
}

// Delete borra el archivo; si no existe no es un error
func (r *gridFSBlobRepository) Delete(ctx context.Context, key string) error {
	if err := r.bucket.DeleteContext(ctx, key); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return err
	}
	return nil
}

// ---------- AWS S3 ----------

type s3BlobRepository struct {
	client *s3.Client
	bucket string
}

// NewS3BlobRepository crea el cliente de S3. Sin credenciales explícitas
// se usa la cadena por defecto del SDK (variables de entorno, perfil, rol).
func NewS3BlobRepository(ctx context.Context, bucket, region, accessID, accessKey string) (BlobRepository, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3 bucket name must not be empty")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessID, accessKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	logger.Default().Infof("S3 blob store enabled (bucket=%s, region=%s)", bucket, region)
	return &s3BlobRepository{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// Enabled devuelve true
func (r *s3BlobRepository) Enabled() bool { return true }

// Put sube el objeto al bucket
func (r *s3BlobRepository) Put(ctx context.Context, key, contentType string, data io.Reader) error {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Open descarga el objeto; NoSuchKey se traduce a ErrNotFound
func (r *s3BlobRepository) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	return out.Body, nil
}

// Delete borra el objeto del bucket
func (r *s3BlobRepository) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	return err
}
