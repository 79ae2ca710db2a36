package probe

// SimulationPayload is the body the extension posts after a bank
// simulation finishes. field order follows the extension's payload.
type SimulationPayload struct {
	SimId   int           `json:"sim_id"`
	IfId    int           `json:"if_id"`
	ApiData SimulationApi `json:"api_data"`
}

type SimulationApi struct {
	Target string         `json:"target"`
	Status string         `json:"status"`
	Data   SimulationData `json:"data"`
}

type SimulationData struct {
	Result  []SimulationOption `json:"result"`
	Message string             `json:"message"`
}

type SimulationOption struct {
	Prazo           int     `json:"prazo"`
	TipoAmortizacao string  `json:"tipo_amortizacao"`
	ValorEntrada    float64 `json:"valor_entrada"`
	ValorTotal      float64 `json:"valor_total"`
	JurosNominais   string  `json:"juros_nominais"`
	JurosEfetivos   string  `json:"juros_efetivos"`
}

// SampleSimulation is a captured caixa simulation result.
func SampleSimulation() SimulationPayload {
	return SimulationPayload{
		SimId: 164,
		IfId:  1,
		ApiData: SimulationApi{
			Target: "caixa",
			Status: "success",
			Data: SimulationData{
				Result: []SimulationOption{
					{
						Prazo:           397,
						TipoAmortizacao: "SAC/TR SBPE (TR): Imóvel vinculado a Empreendimento Financiado na CAIXA - Taxa Balcão",
						ValorEntrada:    635881.54,
						ValorTotal:      164118.46,
						JurosNominais:   "10.92% a.a.",
						JurosEfetivos:   "11.49% a.a.",
					},
					{
						Prazo:           397,
						TipoAmortizacao: "SAC/TR SBPE (TR): Taxa Balcão",
						ValorEntrada:    642197.21,
						ValorTotal:      157802.79,
						JurosNominais:   "10.92% a.a.",
						JurosEfetivos:   "11.49% a.a.",
					},
				},
				Message: "",
			},
		},
	}
}
