package engine

// Stage labels of the pipeline. They complete the sentence "Failed to ...!".
const (
	stageSelectMode  = "select mode"
	stageReadCurrent = "read current state"
	stageWriteConfig = "write generated config"
	stageDevEval     = "run disko dev eval"
	stageDevValidate = "run disko dev validate"
)
