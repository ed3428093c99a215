package models

// 下拉列表配置的三个键
const (
	DropdownMaterials      = "materials"
	DropdownReflectorTypes = "reflector_types"
	DropdownStorageAreas   = "storage_areas"
)

// DropdownKeys 按固定顺序返回三个键
func DropdownKeys() []string {
	return []string{DropdownMaterials, DropdownReflectorTypes, DropdownStorageAreas}
}

// DropdownConfig 表示下拉列表配置
type DropdownConfig struct {
	Materials      []string `json:"materials"`
	ReflectorTypes []string `json:"reflector_types"`
	StorageAreas   []string `json:"storage_areas"`
}

// DefaultDropdownConfig 返回默认下拉列表配置
func DefaultDropdownConfig() DropdownConfig {
	return DropdownConfig{
		Materials:      []string{"钢材", "混凝土", "铝合金", "其他"},
		ReflectorTypes: []string{"平底孔", "横通孔", "斜孔", "其他"},
		StorageAreas:   []string{"A区", "B区", "C区", "D区"},
	}
}

// Set 按键名写入列表
func (d *DropdownConfig) Set(key string, items []string) {
	switch key {
	case DropdownMaterials:
		d.Materials = items
	case DropdownReflectorTypes:
		d.ReflectorTypes = items
	case DropdownStorageAreas:
		d.StorageAreas = items
	}
}

// Get 按键名读取列表
func (d *DropdownConfig) Get(key string) []string {
	switch key {
	case DropdownMaterials:
		return d.Materials
	case DropdownReflectorTypes:
		return d.ReflectorTypes
	case DropdownStorageAreas:
		return d.StorageAreas
	}
	return nil
}
