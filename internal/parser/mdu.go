package parser

// newMDUParser builds the pipeline for MDU vertical-expansion demands.
// Disposition codes 21 and 36 mean the operator already closed the demand;
// VT demands are handled outside the flow.
func newMDUParser(cities CityTable) RowParser {
	return &rowPipeline{
		cities: cities,
		cfg: pipelineConfig{
			requiredColumns: []string{
				ColIDDemanda, ColCodOperadora, ColEnderecoVistoria,
				ColFila, ColTipoDemanda, ColCodBaixa, ColDataInicio,
			},
			excludedDispositions: map[string]bool{
				"21": true,
				"36": true,
			},
			excludedDemandTypes: map[string]bool{
				"VT": true,
			},
			queuesByAssignment: map[string][]string{
				"análise":            {"Ocorrências PRJ", "Ocorrências MDU"},
				"analise":            {"Ocorrências PRJ", "Ocorrências MDU"},
				"validação vistoria": {"Vistoria MDU"},
				"validacao vistoria": {"Vistoria MDU"},
			},
		},
	}
}
