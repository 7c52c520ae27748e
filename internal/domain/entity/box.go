package entity

// Box рамка найденного объекта в пикселях исходного изображения (левый верх, правый низ)
type Box struct {
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Confidence float32 `json:"confidence"`
	Class      int     `json:"class"`
}

// Area возвращает площадь рамки
func (b Box) Area() float64 {
	return (b.X2 - b.X1) * (b.Y2 - b.Y1)
}

// Detection результат прогона детектора по одному изображению.
type Detection struct {
	ImageWidth  int   // ширина изображения
	ImageHeight int   // высота изображения
	Boxes       []Box // найденные рамки, могут пересекаться
}

// TotalArea площадь изображения в пикселях
func (d Detection) TotalArea() int {
	return d.ImageWidth * d.ImageHeight
}

// BoxArea суммарная площадь рамок. Пересечения не вычитаются.
func (d Detection) BoxArea() float64 {
	var sum float64
	for _, b := range d.Boxes {
		sum += b.Area()
	}
	return sum
}
