package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/gaps/engine/assets/loaders"
	"github.com/spaghettifunk/gaps/engine/core"
	"github.com/spaghettifunk/gaps/engine/resources"
)

var (
	ErrManagerClosed      = errors.New("asset manager already closed")
	ErrAssetNotFound      = errors.New("asset not found")
	ErrNoLoader           = errors.New("no loader registered for asset type")
	ErrAlreadyInitialized = errors.New("asset manager already initialized")
)

type AssetInfo struct {
	Path       string
	Type       resources.ResourceType
	LastLoaded time.Time
}

// AssetManager indexes the files under an assets directory and keeps the
// index current while they change on disk. Every change is reported to the
// event sink as EVENT_CODE_ASSET_CHANGED.
type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	loaders map[resources.ResourceType]Loader
	sink    core.EventSink

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	started  bool
	isClosed bool
}

// NewAssetManager returns a manager reporting changes to sink. A nil sink
// keeps the index current without emitting events.
func NewAssetManager(sink core.EventSink) (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[resources.ResourceType]Loader),
		sink:     sink,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	am.RegisterLoader(resources.ResourceTypeImage, &loaders.TextureLoader{})
	return am, nil
}

// Initialize indexes assetsDir recursively and starts watching it. It may
// succeed only once per manager.
func (am *AssetManager) Initialize(assetsDir string) error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return ErrManagerClosed
	}
	if am.started {
		am.mutex.Unlock()
		return ErrAlreadyInitialized
	}
	am.started = true
	am.root = filepath.Clean(assetsDir)
	am.mutex.Unlock()

	if err := am.watchRecursive(am.root); err != nil {
		am.mutex.Lock()
		am.started = false
		am.root = ""
		am.assets = make(map[string]AssetInfo)
		am.mutex.Unlock()
		return fmt.Errorf("failed to watch %s: %w", assetsDir, err)
	}

	go am.start()

	core.LogInfo("asset manager watching `%s` (%d assets indexed)", am.root, am.Count())
	return nil
}

// RegisterLoader sets the loader used for assets of the given type.
func (am *AssetManager) RegisterLoader(assetType resources.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

// LoadAsset loads an indexed asset. name may be relative to the assets
// directory or the indexed path itself.
func (am *AssetManager) LoadAsset(name string, params interface{}) (*resources.Resource, error) {
	am.mutex.Lock()
	path, asset, exists := am.lookup(name)
	if !exists {
		am.mutex.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, name)
	}
	loader, loaderExists := am.loaders[asset.Type]
	if !loaderExists {
		am.mutex.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNoLoader, asset.Type)
	}
	asset.LastLoaded = time.Now()
	am.assets[path] = asset
	am.mutex.Unlock()

	return loader.Load(path, params)
}

func (am *AssetManager) UnloadAsset(asset *resources.Resource) error {
	if asset == nil {
		return nil
	}
	am.mutex.RLock()
	loader, exists := am.loaders[asset.Type]
	am.mutex.RUnlock()
	if !exists {
		return fmt.Errorf("%w: %s", ErrNoLoader, asset.Type)
	}
	return loader.Unload(asset)
}

// Lookup returns the index entry for name.
func (am *AssetManager) Lookup(name string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	_, info, ok := am.lookup(name)
	return info, ok
}

// Assets returns every indexed asset sorted by path.
func (am *AssetManager) Assets() []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	out := make([]AssetInfo, 0, len(am.assets))
	for _, a := range am.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func (am *AssetManager) Count() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

// Close stops the watcher. Safe to call more than once.
func (am *AssetManager) Close() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	started := am.started
	am.mutex.Unlock()

	close(am.done)
	if started {
		<-am.stopped
		return nil
	}
	return am.fsnotify.Close()
}

// lookup expects the mutex to be held.
func (am *AssetManager) lookup(name string) (string, AssetInfo, bool) {
	candidates := []string{filepath.Clean(name)}
	if am.root != "" && !filepath.IsAbs(name) {
		candidates = append([]string{filepath.Join(am.root, name)}, candidates...)
	}
	for _, p := range candidates {
		if info, ok := am.assets[p]; ok {
			return p, info, true
		}
	}
	return "", AssetInfo{}, false
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleWatchEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			if err := am.fsnotify.Close(); err != nil {
				core.LogError("failed to close asset watcher: %s", err)
			}
			return
		}
	}
}

func (am *AssetManager) handleWatchEvent(e fsnotify.Event) {
	path := filepath.Clean(e.Name)

	if e.Op&fsnotify.Create != 0 {
		if s, err := os.Stat(path); err == nil && s.IsDir() {
			if err := am.watchRecursive(path); err != nil {
				core.LogWarn("failed to watch new directory `%s`: %s", path, err)
			}
			return
		}
	}

	switch {
	case e.Op&(fsnotify.Create|fsnotify.Write) != 0:
		if am.handleFileEvent(path) {
			am.emit(path, false)
		}
	case e.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		removed := am.removeAsset(path)
		if len(removed) > 1 || (len(removed) == 1 && removed[0] != path) {
			// a directory went away; a renamed one is still watched
			_ = am.fsnotify.Remove(path)
		}
		for _, p := range removed {
			am.emit(p, true)
		}
	}
}

func (am *AssetManager) emit(path string, removed bool) {
	if am.sink == nil {
		return
	}
	am.sink.Enqueue(core.EventContext{
		Type:   core.EVENT_CODE_ASSET_CHANGED,
		Sender: am,
		Data: &core.AssetEvent{
			Path:    path,
			Removed: removed,
		},
	})
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes every known file found along the way.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(filepath.Clean(walkPath))
		return nil
	})
}

// handleFileEvent indexes a created or modified file. Returns false for
// files of unknown type.
func (am *AssetManager) handleFileEvent(path string) bool {
	assetType := determineAssetType(path)
	if assetType == resources.ResourceTypeNone {
		return false
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()

	info := am.assets[path]
	info.Path = path
	info.Type = assetType
	am.assets[path] = info
	return true
}

// removeAsset drops a deleted file, or every file under a deleted
// directory, from the index. Returns the dropped paths sorted.
func (am *AssetManager) removeAsset(path string) []string {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	prefix := path + string(filepath.Separator)
	var removed []string
	for p := range am.assets {
		if p == path || strings.HasPrefix(p, prefix) {
			removed = append(removed, p)
			delete(am.assets, p)
		}
	}
	sort.Strings(removed)
	return removed
}

func determineAssetType(path string) resources.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return resources.ResourceTypeImage
	case ".glsl", ".vert", ".frag":
		return resources.ResourceTypeShader
	case ".toml", ".yaml", ".yml":
		return resources.ResourceTypeConfig
	case ".txt":
		return resources.ResourceTypeText
	default:
		return resources.ResourceTypeNone
	}
}
