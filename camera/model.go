package camera

// Model is the name of a camera projection model, as written in COLMAP
// camera files.
type Model string

const (
	SimplePinhole       = Model("SIMPLE_PINHOLE")
	Pinhole             = Model("PINHOLE")
	SimpleRadial        = Model("SIMPLE_RADIAL")
	Radial              = Model("RADIAL")
	OpenCV              = Model("OPENCV")
	OpenCVFisheye       = Model("OPENCV_FISHEYE")
	FullOpenCV          = Model("FULL_OPENCV")
	FOV                 = Model("FOV")
	SimpleRadialFisheye = Model("SIMPLE_RADIAL_FISHEYE")
	RadialFisheye       = Model("RADIAL_FISHEYE")
	ThinPrismFisheye    = Model("THIN_PRISM_FISHEYE")
)

// ModelInfo describes the parameter layout of a Model. Code is the numeric
// id used by binary model files.
type ModelInfo struct {
	Code        int
	Name        Model
	NumParams   int
	SingleFocal bool
	Fisheye     bool
}

var models = []ModelInfo{
	{Code: 0, Name: SimplePinhole, NumParams: 3, SingleFocal: true},
	{Code: 1, Name: Pinhole, NumParams: 4},
	{Code: 2, Name: SimpleRadial, NumParams: 4, SingleFocal: true},
	{Code: 3, Name: Radial, NumParams: 5, SingleFocal: true},
	{Code: 4, Name: OpenCV, NumParams: 8},
	{Code: 5, Name: OpenCVFisheye, NumParams: 8, Fisheye: true},
	{Code: 6, Name: FullOpenCV, NumParams: 12},
	{Code: 7, Name: FOV, NumParams: 5},
	{Code: 8, Name: SimpleRadialFisheye, NumParams: 4, SingleFocal: true, Fisheye: true},
	{Code: 9, Name: RadialFisheye, NumParams: 5, SingleFocal: true, Fisheye: true},
	{Code: 10, Name: ThinPrismFisheye, NumParams: 12, Fisheye: true},
}

// Info returns the layout of m.
func (m Model) Info() (ModelInfo, bool) {
	for _, info := range models {
		if info.Name == m {
			return info, true
		}
	}
	return ModelInfo{}, false
}

// ModelByCode looks up a model by its binary code.
func ModelByCode(code int) (ModelInfo, bool) {
	if code < 0 || code >= len(models) {
		return ModelInfo{}, false
	}
	return models[code], true
}
