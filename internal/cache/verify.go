package cache

import (
	"errors"
	"io/fs"

	"kapsel/internal/models"
)

type ItemState string

const (
	ItemFresh   ItemState = "fresh"   //缓存内容与包内一致
	ItemStale   ItemState = "stale"   //缓存内容与包内不一致
	ItemMissing ItemState = "missing" //缓存中不存在
)

type ItemStatus struct {
	Item   string    `json:"item" yaml:"item"`
	Path   string    `json:"path" yaml:"path"`
	State  ItemState `json:"state" yaml:"state"`
	Cached string    `json:"cached,omitempty" yaml:"cached,omitempty"`
	Bundle string    `json:"bundle" yaml:"bundle"`
}

/**
 * Compare the cached payload of an application with its bundle
 * @param {*models.CacheLayout} layout - Cache layout to inspect
 * @param {fs.FS} src - Bundle
 * @returns {[]ItemStatus} Returns one status per payload item
 * @throws
 * - MaterializationError when an item is missing from the bundle
 */
func Verify(layout *models.CacheLayout, src fs.FS) ([]ItemStatus, error) {
	statuses := make([]ItemStatus, 0, len(layout.Items))
	for _, item := range layout.Items {
		bundled, err := DigestFS(src, item)
		if err != nil {
			return nil, models.ErrPayloadMissing(item, err)
		}
		st := ItemStatus{Item: item, Path: layout.Path(item), Bundle: bundled.String()}

		cached, err := DigestFile(st.Path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			st.State = ItemMissing
		case err != nil:
			return nil, models.ErrPayloadWrite(st.Path, err)
		case cached == bundled:
			st.State = ItemFresh
			st.Cached = cached.String()
		default:
			st.State = ItemStale
			st.Cached = cached.String()
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}
