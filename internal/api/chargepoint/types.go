package chargepoint

// stationResponse is the vendor's station detail payload. Only the port list
// is consumed; everything else in the response is ignored.
type stationResponse struct {
	Data struct {
		Evses []evse `json:"evses"`
	} `json:"data"`
}

type evse struct {
	Ports []portPayload `json:"ports"`
}

type portPayload struct {
	PlugType       string `json:"plugType"`
	PortStatus     string `json:"portStatus"`
	PortOcppStatus string `json:"portOcppStatus"`
}

// supportedPlugTypes filters the vendor port list down to the connectors the
// tracker cares about; anything else (e.g. AC outlets) is dropped.
var supportedPlugTypes = map[string]bool{
	"CCS":      true,
	"CHAdeMO":  true,
	"SAEJ1772": true,
}
