package cafeteria

// envelope is the common response wrapper of the cafeteria site API.
// errorCode 0 means success; errorMsg carries the site's own message text.
type envelope struct {
	ErrorCode int       `json:"errorCode"`
	ErrorMsg  string    `json:"errorMsg"`
	DataSets  *dataSets `json:"dataSets"`
}

type dataSets struct {
	ReserveList          []ReserveEntry   `json:"reserveList"`
	DeliveryInfoTypeList []DeliveryOption `json:"deliveryInfoTypeList"`
}

// ReserveEntry appears both in the available-menu list and in the user's
// reservation list; which fields are populated depends on the endpoint.
type ReserveEntry struct {
	DispNm    string `json:"dispNm"`
	ConerNm   string `json:"conerNm"`
	ConerDvCd string `json:"conerDvCd"`
	BizplcCd  string `json:"bizplcCd"`
	MealDvCd  string `json:"mealDvCd"`
	PrvdDt    string `json:"prvdDt"`
	RsvStatCd string `json:"rsvStatCd"`
}

// DeliveryOption describes one pickup floor returned by the delivery-info
// endpoint; its fields are echoed back verbatim in the order payload.
type DeliveryOption struct {
	FloorNm         string `json:"floorNm"`
	Rownum          int    `json:"rownum"`
	DlvrPlcFloorNo  string `json:"dlvrPlcFloorNo"`
	AlphabetSeq     string `json:"alphabetSeq"`
	DlvrPlcFloorSeq int    `json:"dlvrPlcFloorSeq"`
	RemainDeliQty   int    `json:"remainDeliQty"`
	DlvrPlcNm       string `json:"dlvrPlcNm"`
	TotalCount      int    `json:"totalCount"`
	MaxDelvQty      int    `json:"maxDelvQty"`
	DlvrPlcSeq      int    `json:"dlvrPlcSeq"`
}

// Order is the payload of the insert-reservation endpoint: the chosen menu
// corner plus the delivery fields copied from a DeliveryOption.
type Order struct {
	BizplcCd        string `json:"bizplcCd"`
	ConerDvCd       string `json:"conerDvCd"`
	MealDvCd        string `json:"mealDvCd"`
	PrvdDt          string `json:"prvdDt"`
	Rownum          int    `json:"rownum"`
	DlvrPlcFloorNo  string `json:"dlvrPlcFloorNo"`
	AlphabetSeq     string `json:"alphabetSeq"`
	DlvrPlcFloorSeq int    `json:"dlvrPlcFloorSeq"`
	RemainDeliQty   int    `json:"remainDeliQty"`
	DlvrPlcNm       string `json:"dlvrPlcNm"`
	OrdQty          int    `json:"ordQty"`
	TotalCount      int    `json:"totalCount"`
	FloorNm         string `json:"floorNm"`
	MaxDelvQty      int    `json:"maxDelvQty"`
	DlvrPlcSeq      int    `json:"dlvrPlcSeq"`
	DlvrRsvDvCd     int    `json:"dlvrRsvDvCd"`
	DsppUseYn       string `json:"dsppUseYn"`
}

type loginRequest struct {
	UserID         string `json:"userId"`
	UserData       string `json:"userData"`
	OsDvCd         string `json:"osDvCd"`
	UserCurrAppVer string `json:"userCurrAppVer"`
	MobiPhTrmlID   string `json:"mobiPhTrmlId"`
}

type menuListRequest struct {
	PrvdDt      string `json:"prvdDt"`
	BizplcCd    string `json:"bizplcCd"`
	ClcoMvicoYn string `json:"clcoMvicoYn"`
	ReseFgCd    string `json:"reseFgCd"`
}

type deliveryInfoRequest struct {
	ConerDvCd string `json:"conerDvCd"`
	MealDvCd  string `json:"mealDvCd"`
	BizbrCd   string `json:"bizbrCd"`
	BizplcCd  string `json:"bizplcCd"`
	PrvdDt    string `json:"prvdDt"`
}

type reservationListRequest struct {
	PrvdDt   string `json:"prvdDt"`
	BizplcCd string `json:"bizplcCd"`
}
