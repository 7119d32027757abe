package pincode

// DefaultRecords are the pilot pincodes served without a database.
func DefaultRecords() []Record {
	return []Record{
		{Pincode: "211001", District: "Prayagraj", Block: "Chaka", State: "Uttar Pradesh", Lat: 25.4358, Lon: 81.8463},
		{Pincode: "211008", District: "Prayagraj", Block: "Chaka", State: "Uttar Pradesh", Lat: 25.3980, Lon: 81.8710},
		{Pincode: "211012", District: "Prayagraj", Block: "Sahson", State: "Uttar Pradesh", Lat: 25.4720, Lon: 82.0150},
		{Pincode: "211015", District: "Prayagraj", Block: "Koraon", State: "Uttar Pradesh", Lat: 24.9870, Lon: 82.1010},
		{Pincode: "440001", District: "Nagpur", Block: "Nagpur Urban", State: "Maharashtra", Lat: 21.1458, Lon: 79.0882},
		{Pincode: "444001", District: "Akola", Block: "Akola", State: "Maharashtra", Lat: 20.7002, Lon: 77.0082},
		{Pincode: "431001", District: "Aurangabad", Block: "Aurangabad", State: "Maharashtra", Lat: 19.8762, Lon: 75.3433},
		{Pincode: "411001", District: "Pune", Block: "Haveli", State: "Maharashtra", Lat: 18.5204, Lon: 73.8567},
		{Pincode: "425001", District: "Jalgaon", Block: "Jalgaon", State: "Maharashtra", Lat: 21.0077, Lon: 75.5626},
	}
}
