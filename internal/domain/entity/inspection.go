package entity

// Inspection итог анализа изображения: оценка и найденные области.
type Inspection struct {
	Result      DamageResult // оценка для ответа клиенту
	Regions     []Box        // области повреждения (контуры или рамки модели)
	ImageWidth  int          // ширина изображения
	ImageHeight int          // высота изображения
}

// HasRegions флаг наличия областей для подсветки
func (i *Inspection) HasRegions() bool {
	return i != nil && len(i.Regions) > 0
}
