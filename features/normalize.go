package features

import "gonum.org/v1/gonum/stat"

// Normalize z-scores every column of train and test in place using
// means and standard deviations computed from train only. Constant
// columns are left untouched.
func Normalize(train, test [][]float64) {
	if len(train) == 0 {
		return
	}
	ncol := len(train[0])
	col := make([]float64, len(train))
	for j := 0; j < ncol; j++ {
		for i := range train {
			col[i] = train[i][j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || len(train) < 2 {
			continue
		}
		for i := range train {
			train[i][j] = (train[i][j] - mean) / std
		}
		for i := range test {
			test[i][j] = (test[i][j] - mean) / std
		}
	}
}
