// Package domain models NASA DONKI (Space Weather Database Of Notifications,
// Knowledge, Information) event data and the pure computations the dashboard
// runs over it.
//
// # Data Source
//
// Events come from the DONKI REST API at https://api.nasa.gov/DONKI/<type>,
// one JSON array per request. Three event types are used:
//
//	CME  coronal mass ejection
//	FLR  solar flare
//	GST  geomagnetic storm
//
// The schema differs per type and is not enforced here. Events are decoded
// into an ordered [Object] so that rendering follows the upstream key order,
// and every field is read through a total accessor: an absent key is reported
// with ok == false, never confused with an empty string.
//
// # Representative Time
//
// Each event is placed on the timeline by its representative time: the first
// non-empty of "startTime" (CME, GST) or "peakTime" (FLR). The first ten
// characters ("YYYY-MM-DD") are its representative date. Events with neither
// field are listed but never counted in the daily series.
//
// # Impact Predictions
//
// CME events carry WSA-Enlil model runs under
//
//	cmeAnalyses[].enlilList[].impactList[]
//
// A run with "isEarthGB": true predicts an Earth glancing blow; only its
// "Earth" impacts are kept. Every impact of any other run is reported as an
// other-body impact (Mars, STEREO A, Psyche, ...). Missing locations and
// arrival times are shown as [NotAvailable].
package domain
