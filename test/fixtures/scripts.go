package fixtures

// HardeningScript turns every protection on and installs every update by
// hand, without any background simulator. It ends at a perfect live score.
const HardeningScript = `[
	{"type": "TOGGLE_ANTIVIRUS"},
	{"type": "TOGGLE_FIREWALL"},
	{"type": "CHECK_FOR_UPDATES"},
	{"type": "START_UPDATE_INSTALL"},
	{"type": "UPDATE_INSTALL_PROGRESS", "payload": {"updateId": "KB5037771", "status": "installing"}},
	{"type": "UPDATE_INSTALL_PROGRESS", "payload": {"updateId": "KB5037771", "status": "installed"}},
	{"type": "UPDATE_INSTALL_PROGRESS", "payload": {"updateId": "KB5031234", "status": "installing"}},
	{"type": "UPDATE_INSTALL_PROGRESS", "payload": {"updateId": "KB5031234", "status": "installed"}},
	{"type": "UPDATE_INSTALL_PROGRESS", "payload": {"updateId": "KB5034441", "status": "installing"}},
	{"type": "UPDATE_INSTALL_PROGRESS", "payload": {"updateId": "KB5034441", "status": "installed"}},
	{"type": "FINISH_UPDATE"},
	{"type": "SET_RANSOMWARE_PROTECTION", "payload": {"status": "configured"}}
]`

// HardeningScores are the live scores after each action of HardeningScript.
var HardeningScores = []int{40, 65, 65, 65, 65, 65, 65, 65, 65, 85, 85, 100}

// ThreatScript runs a scan that finds one threat and quarantines it.
const ThreatScript = `[
	{"type": "TOGGLE_ANTIVIRUS"},
	{"type": "START_SCAN", "payload": {"profile": "quick"}},
	{"type": "UPDATE_SCAN_PROGRESS", "payload": {"progress": 50, "filesScanned": 22500, "currentFile": "C:\\Windows\\System32\\hal.dll"}},
	{"type": "FINISH_SCAN", "payload": {"threats": [{"id": "t-1", "name": "Trojan:Win32/Wacatac.B!ml", "status": "active"}]}},
	{"type": "MANAGE_THREAT", "payload": {"threatId": "t-1", "action": "quarantined"}}
]`
