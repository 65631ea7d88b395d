package repositories

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	json "github.com/goccy/go-json"
	"github.com/karlseguin/ccache/v3"

	"github.com/mreimer702/Rettnar/logger"
)

// CacheRepository define la interfaz para operaciones de caché
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{})
	Delete(ctx context.Context, key string)
	// Generation devuelve la versión actual de un namespace. Las claves armadas
	// con ella quedan inalcanzables después de BumpGeneration.
	Generation(ctx context.Context, namespace string) uint64
	BumpGeneration(ctx context.Context, namespace string)
}

// cacheRepository implementa CacheRepository con dos niveles:
// ccache en memoria (L1) y Memcached compartido (L2, opcional)
type cacheRepository struct {
	localCache      *ccache.Cache[[]byte]
	memcachedClient *memcache.Client
	ttl             time.Duration

	mu          sync.Mutex
	generations map[string]uint64
}

// NewCacheRepository crea el caché. Con memcachedHost vacío solo se usa el nivel local.
func NewCacheRepository(memcachedHost string, ttl time.Duration) CacheRepository {
	localCache := ccache.New(ccache.Configure[[]byte]().MaxSize(1000))

	var client *memcache.Client
	if memcachedHost != "" {
		client = memcache.New(memcachedHost)
		client.Timeout = 200 * time.Millisecond
		logger.Default().Infof("Cache repository initialized with Memcached at %s", memcachedHost)
	} else {
		logger.Default().Info("Cache repository initialized (local only)")
	}

	return &cacheRepository{
		localCache:      localCache,
		memcachedClient: client,
		ttl:             ttl,
		generations:     make(map[string]uint64),
	}
}

// Get obtiene datos del caché (primero local, luego Memcached)
func (r *cacheRepository) Get(ctx context.Context, key string, dest interface{}) bool {
	log := logger.FromContext(ctx)

	// 1. Buscar en caché local primero
	if item := r.localCache.Get(key); item != nil && !item.Expired() {
		if err := json.Unmarshal(item.Value(), dest); err == nil {
			log.Debugf("Cache HIT (local): key=%s", key)
			return true
		}
		r.localCache.Delete(key)
	}
	if r.memcachedClient == nil {
		log.Debugf("Cache MISS: key=%s", key)
		return false
	}

	// 2. Si no está en local, buscar en Memcached
	item, err := r.memcachedClient.Get(key)
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			log.Warnf("Error getting from Memcached: key=%s, error=%v", key, err)
		}
		log.Debugf("Cache MISS: key=%s", key)
		return false
	}

	// 3. Parsear y guardar en local para próximas consultas
	if err := json.Unmarshal(item.Value, dest); err != nil {
		log.Warnf("Error unmarshaling cache data from Memcached: key=%s, error=%v", key, err)
		return false
	}
	r.localCache.Set(key, item.Value, r.ttl)
	log.Debugf("Cache HIT (Memcached): key=%s, stored in local cache", key)
	return true
}

// Set guarda datos en ambos niveles de caché
func (r *cacheRepository) Set(ctx context.Context, key string, value interface{}) {
	log := logger.FromContext(ctx)

	data, err := json.Marshal(value)
	if err != nil {
		log.Warnf("Error marshaling cache data: key=%s, error=%v", key, err)
		return
	}
	r.localCache.Set(key, data, r.ttl)

	if r.memcachedClient == nil {
		return
	}
	err = r.memcachedClient.Set(&memcache.Item{
		Key:        key,
		Value:      data,
		Expiration: int32(r.ttl / time.Second),
	})
	if err != nil {
		log.Warnf("Error setting cache in Memcached: key=%s, error=%v", key, err)
	}
}

// Delete elimina datos de ambos niveles de caché
func (r *cacheRepository) Delete(ctx context.Context, key string) {
	r.localCache.Delete(key)
	if r.memcachedClient == nil {
		return
	}
	if err := r.memcachedClient.Delete(key); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		logger.FromContext(ctx).Warnf("Error deleting from Memcached: key=%s, error=%v", key, err)
	}
}

func generationKey(namespace string) string {
	return namespace + ":generation"
}

// Generation devuelve la versión actual del namespace
func (r *cacheRepository) Generation(ctx context.Context, namespace string) uint64 {
	if r.memcachedClient != nil {
		item, err := r.memcachedClient.Get(generationKey(namespace))
		if err == nil {
			if gen, perr := strconv.ParseUint(string(item.Value), 10, 64); perr == nil {
				return gen
			}
		} else if !errors.Is(err, memcache.ErrCacheMiss) {
			logger.FromContext(ctx).Warnf("Error reading cache generation %s: %v", namespace, err)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generations[namespace]
}

// BumpGeneration invalida todas las claves del namespace
func (r *cacheRepository) BumpGeneration(ctx context.Context, namespace string) {
	r.mu.Lock()
	r.generations[namespace]++
	local := r.generations[namespace]
	r.mu.Unlock()

	if r.memcachedClient == nil {
		return
	}
	key := generationKey(namespace)
	if _, err := r.memcachedClient.Increment(key, 1); err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			logger.FromContext(ctx).Warnf("Error bumping cache generation %s: %v", namespace, err)
			return
		}
		// Primera invalidación: la clave todavía no existe
		err = r.memcachedClient.Add(&memcache.Item{Key: key, Value: []byte(strconv.FormatUint(local, 10))})
		if errors.Is(err, memcache.ErrNotStored) {
			_, err = r.memcachedClient.Increment(key, 1)
		}
		if err != nil {
			logger.FromContext(ctx).Warnf("Error creating cache generation %s: %v", namespace, err)
		}
	}
}
