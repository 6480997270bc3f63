package sizecluster

import (
	"runtime"

	"qualitea/internal/particle"

	"gocv.io/x/gocv"
)

// kmeans partitions the size vectors with OpenCV's k-means++ and returns the
// label of every input. OpenCV draws from a per-thread generator, so the
// goroutine stays on its OS thread from seeding until the fit returns and
// identical input always yields identical labels.
func kmeans(features []particle.Features, p Params) []int {
	cols := len(features[0].SizeVector())
	data := gocv.NewMatWithSize(len(features), cols, gocv.MatTypeCV32F)
	defer data.Close()
	for i, f := range features {
		for j, v := range f.SizeVector() {
			data.SetFloatAt(i, j, float32(v))
		}
	}

	labels := gocv.NewMat()
	defer labels.Close()
	centers := gocv.NewMat()
	defer centers.Close()

	criteria := gocv.NewTermCriteria(gocv.Count+gocv.EPS, p.MaxIter, p.Tolerance)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	gocv.SetRNGSeed(int(p.Seed))
	gocv.KMeans(data, p.Clusters, &labels, criteria, max(1, p.Restarts), gocv.KMeansPPCenters, &centers)

	out := make([]int, len(features))
	for i := range out {
		out[i] = int(labels.GetIntAt(i, 0))
	}
	return out
}
